package app

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fixit/config"
	"fixit/internal/adapters/auth"
	"fixit/internal/adapters/email"
	"fixit/internal/adapters/identity"
	"fixit/internal/adapters/ratelimit"
	"fixit/internal/delivery/events"
	deliveryhttp "fixit/internal/delivery/http"
	"fixit/internal/delivery/http/controllers"
	"fixit/internal/delivery/http/middleware"
	"fixit/internal/domain"
	"fixit/internal/metrics"
	"fixit/internal/repository/postgres"
	"fixit/internal/services"

	_ "fixit/docs"
)

// Services are the domain services shared by the HTTP surface and the event listener.
type Services struct {
	Invites     domain.AdminInviteService
	Contractors domain.ContractorService
	Providers   domain.ProviderService
	Identity    domain.IdentityService
}

func mailerConfig(cfg *config.Config) email.MailerConfig {
	e := cfg.Email
	from := e.SESFromAddress
	if e.Provider == "smtp" {
		from = e.SMTPUser
	}
	return email.MailerConfig{
		Provider:    e.Provider,
		FromAddress: from,
		FromName:    e.FromName,
		SMTP: email.SMTPConfig{
			Host:     e.SMTPHost,
			Port:     e.SMTPPort,
			Username: e.SMTPUser,
			Password: e.SMTPPass,
		},
		SES: email.SESConfig{
			Region:             e.AWSRegion,
			AccessKeyID:        e.AWSAccessKeyID,
			SecretAccessKey:    e.AWSSecretAccessKey,
			InsecureSkipVerify: e.SESInsecureSkipTLS,
		},
	}
}

func setupServices(cfg *config.Config, infra *Infra, m *metrics.Metrics, logger *slog.Logger) (*Services, error) {
	mailer, err := email.NewMailer(mailerConfig(cfg), logger)
	if err != nil {
		return nil, err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger, m)

	userRepo := postgres.NewUserRepository(infra.DB)
	inviteRepo := postgres.NewInviteRepository(infra.DB)
	contractorRepo := postgres.NewContractorRepository(infra.DB)
	accountRepo := postgres.NewAccountRepository(infra.DB)

	directory := identity.NewDirectory(accountRepo, auth.NewBcryptHasher(bcrypt.DefaultCost))

	return &Services{
		Invites:     services.NewAdminInviteService(inviteRepo, userRepo, directory, emailService, cfg.ApprovalURL(), logger, m),
		Contractors: services.NewContractorService(userRepo, contractorRepo, emailService, logger, m),
		Providers:   services.NewProviderService(userRepo, contractorRepo, directory, emailService, logger, m),
		Identity:    directory,
	}, nil
}

func setupHTTP(cfg *config.Config, infra *Infra, svcs *Services, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	var limiter middleware.Limiter
	if infra.Redis != nil {
		limiter = ratelimit.NewRedisLimiter(infra.Redis, "fixit:approval", cfg.ApprovalRateLimit, time.Minute)
	}

	return deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Logger:          logger,
		Invites:         controllers.NewAdminInviteController(logger, svcs.Invites),
		Providers:       controllers.NewProviderController(logger, svcs.Providers),
		Auth:            controllers.NewAuthController(logger, svcs.Identity, auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry),
		Health:          controllers.NewHealthController(infra.DB),
		Verifier:        auth.NewJWTVerifier(cfg.JWTSecret),
		ApprovalLimiter: limiter,
		TrustedProxies:  cfg.TrustedProxyPrefixes(),
		Metrics:         m.Handler(),
		AllowedOrigins:  cfg.CORSAllowedOrigins,
	})
}

func setupListener(infra *Infra, svcs *Services, logger *slog.Logger) *events.ContractorListener {
	return events.NewContractorListener(infra.Listener, svcs.Contractors, logger)
}
