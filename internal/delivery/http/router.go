package http

import (
	"log/slog"
	"net/http"
	"net/netip"

	httpSwagger "github.com/swaggo/http-swagger"

	"fixit/internal/delivery/http/controllers"
	"fixit/internal/delivery/http/middleware"
	"fixit/internal/domain"
)

// RouterConfig carries the controllers and cross-cutting pieces the router wires together.
type RouterConfig struct {
	Logger    *slog.Logger
	Invites   *controllers.AdminInviteController
	Providers *controllers.ProviderController
	Auth      *controllers.AuthController
	Health    *controllers.HealthController
	Verifier  domain.TokenVerifier
	// ApprovalLimiter limits approval link visits per client IP. Nil disables it.
	ApprovalLimiter middleware.Limiter
	// TrustedProxies are peers whose X-Forwarded-For hops identify the client.
	TrustedProxies []netip.Prefix
	Metrics        http.Handler
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	authenticate := middleware.Authenticate(cfg.Verifier, cfg.Logger)
	limitApprovals := middleware.RateLimit(cfg.ApprovalLimiter, cfg.TrustedProxies, cfg.Logger)

	// Callables
	mux.HandleFunc("POST /createAdminInvite", authenticate(cfg.Invites.CreateAdminInvite))
	mux.HandleFunc("POST /createProviderAccount", authenticate(cfg.Providers.CreateProviderAccount))

	// Approval link from the invite email
	mux.HandleFunc("GET /handleAdminApproval", limitApprovals(cfg.Invites.HandleAdminApproval))

	// Auth
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)

	// Ops
	mux.HandleFunc("GET /health", cfg.Health.Health)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(cfg.Logger, mux))
}
