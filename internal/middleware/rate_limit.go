package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds per-IP request rate limiting configuration.
// This is transport-level smoothing only; the per-username login
// lockout is enforced by the auth layer against the store.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// DefaultLoginRateLimit limits an IP to 10 login requests per minute,
// enough headroom that the username lockout triggers first for a
// single attacker while still capping request floods.
func DefaultLoginRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate_limit_exceeded","message":"Too many requests"}`))
		}),
	)
}
