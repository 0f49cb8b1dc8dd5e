package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"

	h "fixit/internal/delivery/http/helpers"
)

// Limiter decides whether another request from subject is allowed.
type Limiter interface {
	Allow(ctx context.Context, subject string) (bool, error)
}

// RateLimit returns a wrapper that limits requests per client IP and answers over-limit
// requests with a plain text 429. The client IP is the peer address unless the peer is one of
// trustedProxies. A nil limiter disables limiting. Limiter errors fail open.
func RateLimit(limiter Limiter, trustedProxies []netip.Prefix, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			ip := h.ClientIP(r, trustedProxies)
			ok, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable, allowing request", "path", r.URL.Path, "err", err)
				next(w, r)
				return
			}
			if !ok {
				logger.WarnContext(r.Context(), "rate limit exceeded", "path", r.URL.Path, "client_ip", ip)
				h.WritePlainText(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}
			next(w, r)
		}
	}
}
