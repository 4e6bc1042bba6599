package controller

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewGenerateLimiter allows perMinute generations per minute with bursts of
// the same size. perMinute <= 0 disables limiting and returns nil.
func NewGenerateLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// RateLimit rejects requests with 429 once l is exhausted. A nil limiter
// lets everything through. The limiter is shared by every route it wraps.
func RateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "too many generation requests, try again shortly", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
