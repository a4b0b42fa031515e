package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"loan-risk/logger"
	"loan-risk/metrics"
)

// RateLimitMiddleware rejects clients, keyed by remote IP, that ran out of tokens.
func RateLimitMiddleware(limiter *RateLimiter, log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			allowed, retryAfter := limiter.Allow(ip)
			if !allowed {
				metrics.RateLimitRejectionsTotal.Inc()
				log.Warn("rate limit exceeded", map[string]interface{}{
					"request_id": RequestIDFrom(r.Context()),
					"client":     ip,
				})
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				writeDetail(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
