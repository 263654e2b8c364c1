package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/cookup/gateway/internal/logging"
	"github.com/cookup/gateway/internal/middleware"
	"github.com/cookup/gateway/internal/mocks"
	"github.com/cookup/gateway/internal/service"
	"github.com/cookup/gateway/internal/testdb"
	"github.com/cookup/gateway/internal/types"
)

const testSecret = "api-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	resolver *mocks.MockResolver
}

// setupTestRouter wires every route over an in-memory database and a mocked resolver
func setupTestRouter(t *testing.T, limiter middleware.Limiter) *testEnv {
	t.Helper()

	db := testdb.NewSQLite(t)
	resolver := &mocks.MockResolver{}
	logger := logging.Discard()

	router := gin.New()
	router.Use(middleware.Reauthenticate())
	RegisterRoutes(router, Dependencies{
		DB:        db,
		Resolver:  resolver,
		Favorites: service.NewFavoriteService(db),
		Ratings:   service.NewRatingService(db),
		Planner:   service.NewPlannerService(db, resolver, logger),
		Validator: middleware.NewJWTValidator(testSecret),
		Limiter:   limiter,
		Logger:    logger,
	})
	return &testEnv{router: router, resolver: resolver}
}

func createTestToken(t *testing.T, userID string) string {
	t.Helper()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// do sends a request with an optional JSON body and bearer token
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func strPtr(s string) *string { return &s }

