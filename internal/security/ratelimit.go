package security

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// TokenBucket is a per-key in-memory token bucket. Buckets are
// created on first use and refill at RefillRate tokens per second up
// to Capacity. A zero Capacity or RefillRate disables limiting.
type TokenBucket struct {
	Capacity   int
	RefillRate float64 // tokens per second

	buckets sync.Map // key -> *rate.Limiter
}

// Allow reports whether the caller identified by key may proceed.
func (l *TokenBucket) Allow(key string) bool {
	if l.Capacity <= 0 || l.RefillRate <= 0 {
		return true
	}
	lim, _ := l.buckets.LoadOrStore(key, rate.NewLimiter(rate.Limit(l.RefillRate), l.Capacity))
	return lim.(*rate.Limiter).Allow()
}

// RateLimitMiddleware rejects requests whose key has exhausted its
// bucket. Requests without a derivable key pass through unlimited.
func RateLimitMiddleware(l *TokenBucket, keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if keyFn != nil {
				key = keyFn(r)
			}
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !l.Allow(key) {
				WriteJSONError(w, r, http.StatusTooManyRequests, "rate_limited")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
