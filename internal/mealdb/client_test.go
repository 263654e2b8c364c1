package mealdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryClient(t *testing.T) {
	t.Run("search sends query and bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/meals/search", r.URL.Path)
			assert.Equal(t, "chicken curry", r.URL.Query().Get("q"))
			assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"52795","name":"Chicken Alfredo","area":"Italian"}]`))
		}))
		defer server.Close()

		c := NewPrimaryClient(server.URL+"/api/", WithTokenSupplier(StaticToken("abc")))
		items, err := c.Search(context.Background(), "chicken curry")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Chicken Alfredo", items[0].Name)
	})

	t.Run("token is read from the request context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer from-ctx", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"meals":[]}`))
		}))
		defer server.Close()

		c := NewPrimaryClient(server.URL, WithTokenSupplier(ContextToken))
		_, err := c.Search(WithBearerToken(context.Background(), "from-ctx"), "x")
		require.NoError(t, err)
	})

	t.Run("no token header without a token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewPrimaryClient(server.URL, WithTokenSupplier(ContextToken))
		items, err := c.Search(context.Background(), "x")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("server error is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewPrimaryClient(server.URL).Search(context.Background(), "x")
		require.Error(t, err)
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusBadGateway, te.StatusCode)
		assert.Equal(t, "primary", te.Source)
	})

	t.Run("timeout is a transport error", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		_, err := NewPrimaryClient(server.URL, WithTimeout(50*time.Millisecond)).Search(context.Background(), "x")
		assert.True(t, IsTransport(err))
	})

	t.Run("unauthorized invokes the callback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		var calls atomic.Int32
		c := NewPrimaryClient(server.URL, WithUnauthorizedHandler(func(context.Context) { calls.Add(1) }))
		_, err := c.Search(context.Background(), "x")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.True(t, IsTransport(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("lookup accepts meal envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/meals/meal/52795", r.URL.Path)
			_, _ = w.Write([]byte(`{"meal":{"idMeal":"52795","strMeal":"Chicken Alfredo","strIngredient1":"Chicken","strMeasure1":"2"}}`))
		}))
		defer server.Close()

		meal, err := NewPrimaryClient(server.URL).Lookup(context.Background(), "52795")
		require.NoError(t, err)
		assert.Equal(t, "Chicken Alfredo", meal.Name)
		require.Len(t, meal.Ingredients, 1)
		assert.Equal(t, "2 Chicken", meal.Ingredients[0].String())
	})

	t.Run("lookup 404 is not found", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := NewPrimaryClient(server.URL).Lookup(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, IsTransport(err))
	})

	t.Run("search 404 is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		items, err := NewPrimaryClient(server.URL).Search(context.Background(), "x")
		assert.Nil(t, items)
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusNotFound, te.StatusCode)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed body is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		}))
		defer server.Close()

		_, err := NewPrimaryClient(server.URL).Search(context.Background(), "x")
		assert.True(t, IsTransport(err))
	})
}

func TestFallbackClient(t *testing.T) {
	t.Run("search never sends a token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search.php", r.URL.Path)
			assert.Equal(t, "chicken", r.URL.Query().Get("s"))
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole"}]}`))
		}))
		defer server.Close()

		c := NewFallbackClient(server.URL, WithTokenSupplier(StaticToken("secret")))
		items, err := c.Search(context.Background(), "chicken")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "52772", items[0].ID)
	})

	t.Run("lookup uses the first meal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/lookup.php", r.URL.Path)
			assert.Equal(t, "52772", r.URL.Query().Get("i"))
			_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole"}]}`))
		}))
		defer server.Close()

		meal, err := NewFallbackClient(server.URL).Lookup(context.Background(), "52772")
		require.NoError(t, err)
		assert.Equal(t, "Teriyaki Chicken Casserole", meal.Name)
	})

	t.Run("lookup with null meals is not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"meals":null}`))
		}))
		defer server.Close()

		_, err := NewFallbackClient(server.URL).Lookup(context.Background(), "1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("search 404 is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := NewFallbackClient(server.URL).Search(context.Background(), "x")
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "fallback", te.Source)
		assert.Equal(t, http.StatusNotFound, te.StatusCode)
	})

	t.Run("search with null meals is empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"meals":null}`))
		}))
		defer server.Close()

		items, err := NewFallbackClient(server.URL).Search(context.Background(), "zzz")
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("lookup 404 is not found", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := NewFallbackClient(server.URL).Lookup(context.Background(), "1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("default base url", func(t *testing.T) {
		c := NewFallbackClient("")
		assert.Equal(t, TheMealDBURL, c.src.baseURL)
	})
}
