package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims of an identity provider bearer token
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// UserID returns the identity provider's subject, which is the stable user id
func (c *TokenClaims) UserID() string {
	return c.Subject
}
