package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(1), Burst: 3})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request allowed beyond burst")
	}
}

func TestRateLimiterIsPerAddress(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(1), Burst: 1})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first address denied its first request")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("second address denied because of the first one's traffic")
	}
	if rl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rl.Len())
	}
}

func TestRateLimiterMiddlewareReturns429(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(1), Burst: 1})
	defer rl.Stop()

	e := echo.New()
	mw := rl.Middleware()
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	run := func() (int, error) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Real-IP", "203.0.113.9")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := handler(c)
		return rec.Code, err
	}

	if code, err := run(); err != nil || code != http.StatusOK {
		t.Fatalf("first request: code = %d, err = %v", code, err)
	}

	_, err := run()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("second request error = %v, want *echo.HTTPError", err)
	}
	if he.Code != http.StatusTooManyRequests {
		t.Errorf("second request code = %d, want 429", he.Code)
	}
}
