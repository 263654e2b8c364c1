package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookup/gateway/config"
	"github.com/cookup/gateway/internal/logging"
	"github.com/cookup/gateway/internal/testdb"
	"github.com/cookup/gateway/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(primary, fallback string) *config.Config {
	cfg := config.Default()
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = "0"
	cfg.PrimaryAPIURL = primary
	cfg.FallbackAPIURL = fallback
	cfg.RequestTimeout = 2 * time.Second
	cfg.JWTSecret = "test-secret"
	return cfg
}

func TestNew(t *testing.T) {
	srv := New(testConfig("http://127.0.0.1:1", "http://127.0.0.1:1"), testdb.NewSQLite(t), logging.Discard())
	require.NotNil(t, srv)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchFallsBackEndToEnd(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "/search.php", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole","strArea":"Japanese"}]}`))
	}))
	defer fallback.Close()

	srv := New(testConfig(primary.URL, fallback.URL), testdb.NewSQLite(t), logging.Discard())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meals/search?q=chicken", nil)
	req.Header.Set("Authorization", "Bearer stale-session")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Reauthenticate"))
	assert.JSONEq(t, `{
		"items":[{"id":"52772","name":"Teriyaki Chicken Casserole","area":"Japanese"}],
		"source":"FALLBACK","empty":false,"total":1,"requestToken":1
	}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/meals/search?q=chicken", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Reauthenticate"))
	assert.Contains(t, w.Body.String(), `"requestToken":2`)
}

func TestSearchUnreachableEndToEnd(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	srv := New(testConfig(down.URL, down.URL), testdb.NewSQLite(t), logging.Discard())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/search?q=chicken", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"network error, backend may be down"}`, w.Body.String())
}

func TestSearchPrimaryNotFoundFallsBack(t *testing.T) {
	primary := httptest.NewServer(http.NotFoundHandler())
	defer primary.Close()

	var fallbackCalls int
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackCalls++
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole"}]}`))
	}))
	defer fallback.Close()

	srv := New(testConfig(primary.URL, fallback.URL), testdb.NewSQLite(t), logging.Discard())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/search?q=chicken", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"FALLBACK"`)
	assert.Contains(t, w.Body.String(), `"requestToken":1`)
	assert.Equal(t, 1, fallbackCalls)
}

func TestSearchBothNotFoundIsUnreachable(t *testing.T) {
	missing := httptest.NewServer(http.NotFoundHandler())
	defer missing.Close()

	srv := New(testConfig(missing.URL, missing.URL), testdb.NewSQLite(t), logging.Discard())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/search?q=chicken", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"network error, backend may be down"}`, w.Body.String())
}

func TestDetailFromPrimary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/meals/meal/52795"))
		_, _ = w.Write([]byte(`{"meal":{"id":"52795","name":"Chicken Alfredo","ingredients":[{"quantity":"200g","ingredient":"Fettuccine"}]}}`))
	}))
	defer primary.Close()

	srv := New(testConfig(primary.URL, "http://127.0.0.1:1"), testdb.NewSQLite(t), logging.Discard())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/meal/52795", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meal types.MealDetail `json:"meal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Chicken Alfredo", resp.Meal.Name)
	assert.Equal(t, []types.Ingredient{{Quantity: "200g", Name: "Fettuccine"}}, resp.Meal.Ingredients)
}

func TestRedisLimiterSelected(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig("http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.RateLimit = 1

	srv := New(cfg, testdb.NewSQLite(t), logging.Discard())
	require.NotNil(t, srv.redis)
	defer func() { assert.NoError(t, srv.Stop(context.Background())) }()

	codes := []int{}
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/search", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRun(t *testing.T) {
	srv := New(testConfig("http://127.0.0.1:1", "http://127.0.0.1:1"), testdb.NewSQLite(t), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
