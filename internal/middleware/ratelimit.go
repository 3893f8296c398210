package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"adoptme/internal/platform/logger"
	"adoptme/internal/platform/respond"
	"adoptme/internal/ports/ratelimit"
)

// RateLimit aplica un token bucket por IP de cliente. Va después de
// chi RealIP para que RemoteAddr ya venga resuelto. Si el limiter falla, el
// request pasa igual.
func RateLimit(limiter ratelimit.Limiter, rps float64, burst int, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || rps <= 0 || burst <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			d, err := limiter.Allow(r.Context(), ip, rps, burst)
			if err != nil {
				log.Error("rate limit check failed", map[string]any{
					"request_id": GetRequestID(r.Context()),
					"error":      err,
				})
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

			if !d.Allowed {
				retry := int(math.Max(1, math.Ceil(d.RetryAfter.Seconds())))
				log.Warn("rate limit exceeded", map[string]any{
					"request_id":          GetRequestID(r.Context()),
					"ip":                  ip,
					"endpoint":            r.Method + " " + r.URL.Path,
					"retry_after_seconds": retry,
				})
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				respond.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
