package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"kinderwork/auth"
)

func newTestLimiter(limit rate.Limit, burst int) *RateLimiter {
	return NewRateLimiter(RateLimiterConfig{
		Rate:            limit,
		Burst:           burst,
		CleanupInterval: time.Minute,
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_BurstExhaustion(t *testing.T) {
	rl := newTestLimiter(1, 3)
	defer rl.Stop()
	handler := rl.Middleware()(okHandler())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		if rec := send(); rec.Code != http.StatusOK {
			t.Fatalf("request %d within burst: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := send()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("request past burst: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("429 responses must carry Retry-After")
	}
}

func TestRateLimiter_SeparateCallersIndependent(t *testing.T) {
	rl := newTestLimiter(1, 1)
	defer rl.Stop()
	handler := rl.Middleware()(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first caller: expected 200, got %d", code)
	}
	if code := send("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("first caller second request: expected 429, got %d", code)
	}
	if code := send("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("second caller must have its own bucket, got %d", code)
	}
	if rl.LimiterCount() != 2 {
		t.Fatalf("expected 2 limiter entries, got %d", rl.LimiterCount())
	}
}

func TestRateLimiter_AuthenticatedCallersKeyedByUser(t *testing.T) {
	rl := newTestLimiter(1, 1)
	defer rl.Stop()
	handler := rl.Middleware()(okHandler())

	send := func(addr, userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if userID != "" {
			req = req.WithContext(WithClaims(req.Context(), auth.Claims{UserID: userID, UserType: auth.UserTypeJobSeeker}))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Same IP, different users: independent buckets.
	if code := send("10.0.0.1:1234", "user-a"); code != http.StatusOK {
		t.Fatalf("user-a: expected 200, got %d", code)
	}
	if code := send("10.0.0.1:5678", "user-b"); code != http.StatusOK {
		t.Fatalf("user-b: expected 200, got %d", code)
	}

	// Same user from a new IP shares the exhausted bucket.
	if code := send("10.0.0.9:1234", "user-a"); code != http.StatusTooManyRequests {
		t.Fatalf("user-a again: expected 429, got %d", code)
	}
}
