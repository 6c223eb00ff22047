package auth

import (
	"errors"
	"testing"
	"time"
)

func testUser() User {
	return User{
		ID:       "4f2c9f6e-0000-0000-0000-000000000001",
		UserType: UserTypeJobSeeker,
		Email:    "seeker@example.com",
		Nickname: "seeker",
		IsActive: true,
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")
	user := testUser()

	token, err := m.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %q got %q", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Fatalf("expected email %q got %q", user.Email, claims.Email)
	}
	if claims.UserType != user.UserType {
		t.Fatalf("expected user type %s got %s", user.UserType, claims.UserType)
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenManager("secret-b").Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenManager_Garbage(t *testing.T) {
	m := NewTokenManager("test-secret")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.Verify(token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}

func TestTokenManager_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	m := NewTokenManager("test-secret").WithClock(func() time.Time { return issuedAt })
	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Just inside the 7-day window.
	m.WithClock(func() time.Time { return issuedAt.Add(tokenTTL - time.Minute) })
	if _, err := m.Verify(token); err != nil {
		t.Fatalf("token should still be valid before expiry: %v", err)
	}

	// Exactly at the recorded expiry instant.
	m.WithClock(func() time.Time { return issuedAt.Add(tokenTTL) })
	if _, err := m.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid at the expiry instant, got %v", err)
	}

	// Just past it.
	m.WithClock(func() time.Time { return issuedAt.Add(tokenTTL + time.Minute) })
	if _, err := m.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid past expiry, got %v", err)
	}
}
