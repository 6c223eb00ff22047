package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every way a token can fail verification:
// bad signature, wrong algorithm, malformed structure, or past expiry.
// Callers treat all of them identically to "no session".
var ErrTokenInvalid = errors.New("auth: invalid token")

// tokenTTL is the fixed window between issuance and expiry.
const tokenTTL = 7 * 24 * time.Hour

// Claims is the identity payload carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	UserType UserType `json:"user_type"`
}

// TokenManager issues and verifies HS256 session tokens with a single
// shared secret. Verification is stateless: there is no server-side
// registry of issued tokens, so invalidation is expiry-only.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock overrides the time source. Used by tests to cross the
// expiry boundary without sleeping.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue signs a token carrying the user's identity, expiring tokenTTL
// from now.
func (m *TokenManager) Issue(user User) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		UserID:   user.ID,
		Email:    user.Email,
		UserType: user.UserType,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims. Any
// failure collapses into ErrTokenInvalid.
func (m *TokenManager) Verify(tokenString string) (Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if claims.UserID == "" || !isValidUserType(claims.UserType) {
		return Claims{}, ErrTokenInvalid
	}
	return *claims, nil
}
