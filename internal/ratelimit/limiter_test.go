package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeClock lets tests advance time manually.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(max int) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)}
	limiter := New(&Config{MaxWritesPerMinute: max, Clock: clock})
	return limiter, clock
}

func TestAllowWithinLimit(t *testing.T) {
	limiter, _ := newTestLimiter(3)
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		if result := limiter.Allow("1.2.3.4"); !result.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if result := limiter.Allow("1.2.3.4"); result.Allowed {
		t.Error("request over the limit should be denied")
	}
}

func TestAllowWindowResets(t *testing.T) {
	limiter, clock := newTestLimiter(1)
	defer limiter.Close()

	if result := limiter.Allow("1.2.3.4"); !result.Allowed {
		t.Fatal("first request should be allowed")
	}
	if result := limiter.Allow("1.2.3.4"); result.Allowed {
		t.Fatal("second request in the same window should be denied")
	}

	clock.Advance(time.Minute)
	if result := limiter.Allow("1.2.3.4"); !result.Allowed {
		t.Error("request after the window expires should be allowed")
	}
}

func TestAllowIsolatesClients(t *testing.T) {
	limiter, _ := newTestLimiter(1)
	defer limiter.Close()

	limiter.Allow("1.2.3.4")
	if result := limiter.Allow("5.6.7.8"); !result.Allowed {
		t.Error("a different client should have its own window")
	}
}

func TestRetryAfter(t *testing.T) {
	limiter, clock := newTestLimiter(1)
	defer limiter.Close()

	limiter.Allow("1.2.3.4")
	clock.Advance(20 * time.Second)

	result := limiter.Allow("1.2.3.4")
	if result.Allowed {
		t.Fatal("expected denial")
	}
	if result.RetryAfter != 40*time.Second {
		t.Errorf("expected retry after 40s, got %v", result.RetryAfter)
	}
}

func TestMiddlewarePassesReads(t *testing.T) {
	limiter, _ := newTestLimiter(1)
	defer limiter.Close()

	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/seasons", nil)
		r.RemoteAddr = "1.2.3.4:5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %d should not be limited, got %d", i+1, w.Code)
		}
	}
}

func TestMiddlewareLimitsWrites(t *testing.T) {
	limiter, _ := newTestLimiter(1)
	defer limiter.Close()

	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPut, "/api/v1/games/g1/score", strings.NewReader("{}"))
	r.RemoteAddr = "1.2.3.4:5000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("first write should pass, got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodPut, "/api/v1/games/g1/score", strings.NewReader("{}"))
	r.RemoteAddr = "1.2.3.4:5000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second write should be limited, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("denied response should carry Retry-After")
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "1.2.3.4:5000"
	if got := GetClientIP(r, false); got != "1.2.3.4" {
		t.Errorf("expected 1.2.3.4, got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
	if got := GetClientIP(r, false); got != "1.2.3.4" {
		t.Errorf("untrusted proxy should ignore X-Forwarded-For, got %q", got)
	}
	if got := GetClientIP(r, true); got != "9.9.9.9" {
		t.Errorf("trusted proxy should use rightmost public IP, got %q", got)
	}
}
