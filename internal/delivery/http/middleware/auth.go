package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "fixit/internal/delivery/http/helpers"
	"fixit/internal/domain"
)

type contextKey string

const callerKey contextKey = "caller"

// WithCaller returns a context carrying the authenticated caller. Used by auth middleware.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext returns the caller set by Authenticate. Requests without a bearer token
// yield the zero Caller, which services reject as unauthenticated.
func CallerFromContext(ctx context.Context) domain.Caller {
	caller, _ := ctx.Value(callerKey).(domain.Caller)
	return caller
}

// Authenticate returns a wrapper that resolves the Bearer token into a domain.Caller.
// A request without an Authorization header passes through anonymously so the service decides
// whether identity is required. A malformed header or an invalid token is rejected with 401.
func Authenticate(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next(w, r)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			caller, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "rejected bearer token", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(WithCaller(r.Context(), caller)))
		}
	}
}
