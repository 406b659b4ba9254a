package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

func TestLimitThrottlesPerIP(t *testing.T) {
	rl := &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    1, // per second
		burst:    1,
	}
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(addr string) int {
		r := httptest.NewRequest("GET", "/api/memories", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler(w, r, nil)
		return w.Code
	}

	if code := send("10.0.0.1:4000"); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	if code := send("10.0.0.1:4000"); code != http.StatusTooManyRequests {
		t.Fatalf("burst exceeded, got %d", code)
	}
	// a different client has its own bucket
	if code := send("10.0.0.2:4000"); code != http.StatusOK {
		t.Fatalf("second client throttled: %d", code)
	}
}
