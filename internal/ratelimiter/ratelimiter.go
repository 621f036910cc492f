// Package ratelimiter throttles the HTTP surface with a token bucket.
package ratelimiter

import (
	"context"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimiter wraps golang.org/x/time/rate with an HTTP middleware.
//
// Tokens accumulate at a constant rate up to the burst capacity; each
// request consumes one. An empty bucket rejects the request with 429
// rather than queueing it, so a saturated deployment degrades with fast
// failures instead of growing latency.
//
// Thread safety:
// All methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter allowing requestsPerSecond sustained with
// bursts up to burst.
//
// requestsPerSecond = 0 disables limiting (an effectively unlimited
// bucket is installed so callers never need a nil check).
func New(requestsPerSecond, burst uint) *RateLimiter {
	if requestsPerSecond == 0 {
		requestsPerSecond = 1_000_000_000
		burst = requestsPerSecond
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Allow reports whether one more request fits the current rate,
// consuming a token when it does.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a token is available or ctx is cancelled. It is the
// throttling alternative to Allow for callers that prefer latency over
// rejection, such as internal batch producers.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Middleware rejects requests exceeding the rate with 429 Too Many
// Requests. The bucket is global, not per client.
func (r *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !r.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests"}` + "\n"))
			return
		}
		next.ServeHTTP(w, req)
	})
}
