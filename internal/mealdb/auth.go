package mealdb

import "context"

// TokenSupplier returns the bearer token to attach to an outbound call, or ""
// when there is none.
type TokenSupplier func(ctx context.Context) string

// UnauthorizedFunc is invoked when a source rejects the caller's credentials.
type UnauthorizedFunc func(ctx context.Context)

type bearerTokenKey struct{}

// WithBearerToken returns a copy of ctx carrying the caller's bearer token
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey{}, token)
}

// ContextToken is a TokenSupplier that forwards the token stored by WithBearerToken
func ContextToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey{}).(string)
	return token
}

// StaticToken returns a TokenSupplier that always yields token
func StaticToken(token string) TokenSupplier {
	return func(context.Context) string { return token }
}
