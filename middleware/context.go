// Package middleware provides the HTTP middleware chain: request
// logging, panic recovery, CORS, per-user rate limiting and token
// authentication.
package middleware

import (
	"context"
	"errors"

	"kinderwork/auth"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// ErrNoClaims signals the request carries no authenticated identity.
var ErrNoClaims = errors.New("middleware: no claims in context")

// WithClaims stores verified token claims on the context.
func WithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext retrieves the verified claims, if any.
func ClaimsFromContext(ctx context.Context) (auth.Claims, error) {
	claims, ok := ctx.Value(claimsKey).(auth.Claims)
	if !ok {
		return auth.Claims{}, ErrNoClaims
	}
	return claims, nil
}

// UserIDFromContext is a shortcut for the common case of needing only
// the caller's id.
func UserIDFromContext(ctx context.Context) (string, error) {
	claims, err := ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
