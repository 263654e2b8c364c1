package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookup/gateway/internal/model"
)

func TestFavoritesRequireAuth(t *testing.T) {
	env := setupTestRouter(t, nil)

	for _, path := range []string{"/api/v1/favorites", "/api/v1/ratings", "/api/v1/planner", "/api/v1/planner/shopping-list"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestFavoritesFlow(t *testing.T) {
	env := setupTestRouter(t, nil)
	token := createTestToken(t, "user-1")

	w := env.do(t, http.MethodPost, "/api/v1/favorites", token, map[string]any{
		"mealId": "52795",
		"name":   "Chicken Alfredo",
		"area":   "Italian",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Favorite model.Favorite `json:"favorite"`
	}
	decode(t, w, &created)
	assert.Equal(t, "52795", created.Favorite.MealID)

	w = env.do(t, http.MethodPost, "/api/v1/favorites", token, map[string]any{"name": "no id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Favorites []model.Favorite `json:"favorites"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Favorites, 1)

	other := createTestToken(t, "user-2")
	w = env.do(t, http.MethodDelete, "/api/v1/favorites/52795", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/favorites/52795", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRatingsFlow(t *testing.T) {
	env := setupTestRouter(t, nil)
	token := createTestToken(t, "user-1")

	w := env.do(t, http.MethodPost, "/api/v1/ratings", token, map[string]any{"mealId": "1", "score": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/ratings", token, map[string]any{"mealId": "1", "score": 4, "comment": "nice"})
	require.Equal(t, http.StatusOK, w.Code)
	var rated struct {
		Rating model.Rating `json:"rating"`
	}
	decode(t, w, &rated)
	assert.Equal(t, 4, rated.Rating.Score)

	w = env.do(t, http.MethodGet, "/api/v1/ratings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Ratings []model.Rating `json:"ratings"`
	}
	decode(t, w, &list)
	require.Len(t, list.Ratings, 1)
	assert.Equal(t, "nice", list.Ratings[0].Comment)

	w = env.do(t, http.MethodDelete, "/api/v1/ratings/"+rated.Rating.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, "/api/v1/ratings/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
