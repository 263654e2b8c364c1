package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cookup/gateway/internal/mealdb"
	"github.com/cookup/gateway/internal/types"
)

// ContextUserID is the gin context key holding the authenticated user's id
const ContextUserID = "user_id"

var (
	errMissingHeader = errors.New("missing authorization header")
	errHeaderFormat  = errors.New("invalid authorization header format")
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// JWTValidator verifies HS256 tokens issued by the identity provider with a shared secret
type JWTValidator struct {
	secret []byte
}

// NewJWTValidator creates a validator for tokens signed with secret
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret)}
}

// ValidateToken parses token and returns its claims when the signature and
// registered claims are valid and a subject is present.
func (v *JWTValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.UserID() == "" {
		return nil, errors.New("invalid token: missing subject")
	}
	return claims, nil
}

// AuthMiddleware rejects requests without a valid bearer token. The token is
// also attached to the request context so outbound calls to the primary
// backend act on behalf of the caller.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Request = c.Request.WithContext(mealdb.WithBearerToken(c.Request.Context(), token))
		c.Set(ContextUserID, claims.UserID())
		c.Next()
	}
}

// OptionalAuth forwards a bearer token when one is sent and records the user
// when it validates. Requests without a token, or with one the gateway cannot
// verify, continue anonymously; the primary backend has the final say.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(mealdb.WithBearerToken(c.Request.Context(), token))
		if claims, err := validator.ValidateToken(token); err == nil {
			c.Set(ContextUserID, claims.UserID())
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id, or "" for anonymous requests
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingHeader
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errHeaderFormat
	}
	return parts[1], nil
}
