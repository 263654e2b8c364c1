package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookup/gateway/internal/mealdb"
	"github.com/cookup/gateway/internal/types"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: "cook@example.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// echoRouter reports the user id and forwarded token seen by the handler
func echoRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":  UserID(c),
			"token": mealdb.ContextToken(c.Request.Context()),
		})
	})
	return r
}

func TestJWTValidator(t *testing.T) {
	v := NewJWTValidator(testSecret)

	claims, err := v.ValidateToken(signToken(t, testSecret, "user-1", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "cook@example.com", claims.Email)

	_, err = v.ValidateToken(signToken(t, "other-secret", "user-1", time.Hour))
	assert.Error(t, err)

	_, err = v.ValidateToken(signToken(t, testSecret, "user-1", -time.Minute))
	assert.Error(t, err)

	_, err = v.ValidateToken(signToken(t, testSecret, "", time.Hour))
	assert.Error(t, err)

	_, err = v.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	router := echoRouter(AuthMiddleware(NewJWTValidator(testSecret)))
	token := signToken(t, testSecret, "user-1", time.Hour)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, `{"token":"` + token + `","user":"user-1"}`},
		{"missing header", "", http.StatusUnauthorized, `{"error":"missing authorization header"}`},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, `{"error":"invalid authorization header format"}`},
		{"bad token", "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	router := echoRouter(OptionalAuth(NewJWTValidator(testSecret)))

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token":"","user":""}`, w.Body.String())
	})

	t.Run("unverifiable token is still forwarded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer upstream-only")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token":"upstream-only","user":""}`, w.Body.String())
	})

	t.Run("valid token sets the user", func(t *testing.T) {
		token := signToken(t, testSecret, "user-9", time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.JSONEq(t, `{"token":"`+token+`","user":"user-9"}`, w.Body.String())
	})
}
