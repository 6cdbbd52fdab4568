package middleware

import (
	"net/http"
	"time"

	"pollsvc/internal/identity"
	apperrors "pollsvc/pkg/errors"
	"pollsvc/pkg/logger"
	"pollsvc/pkg/redis"
)

// RateLimitConfig describes one fixed-window limit.
type RateLimitConfig struct {
	// Scope names the limited action, e.g. "vote" or "create_poll".
	Scope string
	// Limit is the number of requests allowed per window.
	Limit int
	// Window is the fixed window length.
	Window time.Duration
}

// RateLimit enforces a fixed-window counter per client IP and scope, backed
// by Redis so the limit holds across service instances. The limiter is a
// pluggable policy in front of the core: when Redis is unavailable it fails
// open rather than blocking votes.
func RateLimit(rc *redis.Client, config RateLimitConfig, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rc == nil || config.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			subject := identity.ClientIP(r.Header.Get("X-Forwarded-For"), r.RemoteAddr)
			if subject == "" {
				subject = "unknown"
			}

			ctx := r.Context()
			key := rc.KeyBuilder.KeyRateLimit(config.Scope, subject)

			n, err := rc.Incr(ctx, key)
			if err != nil {
				log.WithError(err).Warn("rate limit counter unavailable, failing open")
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				if err := rc.Expire(ctx, key, config.Window); err != nil {
					log.WithError(err).Warn("failed to set rate limit window")
				}
			}

			if n > int64(config.Limit) {
				log.WithFields(map[string]interface{}{
					"scope": config.Scope,
					"count": n,
				}).Info("request throttled")
				writeErrorResponse(w, apperrors.NewRateLimitError("Request was throttled. Try again later."), log)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
