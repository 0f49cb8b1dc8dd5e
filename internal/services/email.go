package services

import (
	"context"
	"fmt"
	"log/slog"

	"fixit/internal/domain"
	"fixit/internal/metrics"
)

// Template names understood by the email renderer.
const (
	templateAdminInvite         = "admin_invite"
	templateAdminCredentials    = "admin_credentials"
	templateContractorRejected  = "contractor_rejected"
	templateProviderCredentials = "provider_credentials"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger, m *metrics.Metrics) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger, metrics: m}
}

// SendAdminInvite sends the approval link email using the "admin_invite" template.
func (s *emailService) SendAdminInvite(ctx context.Context, data *domain.AdminInviteEmailData) error {
	if data == nil {
		return fmt.Errorf("admin invite email data is nil")
	}
	return s.send(ctx, templateAdminInvite, data.Email, data)
}

// SendAdminCredentials sends the generated password to a newly approved admin.
func (s *emailService) SendAdminCredentials(ctx context.Context, data *domain.AdminCredentialsEmailData) error {
	if data == nil {
		return fmt.Errorf("admin credentials email data is nil")
	}
	return s.send(ctx, templateAdminCredentials, data.Email, data)
}

// SendContractorRejected sends the rejection notice for a contractor registration.
func (s *emailService) SendContractorRejected(ctx context.Context, data *domain.ContractorRejectedEmailData) error {
	if data == nil {
		return fmt.Errorf("contractor rejected email data is nil")
	}
	return s.send(ctx, templateContractorRejected, data.Email, data)
}

// SendProviderCredentials sends login details to a provider created by a contractor.
func (s *emailService) SendProviderCredentials(ctx context.Context, data *domain.ProviderCredentialsEmailData) error {
	if data == nil {
		return fmt.Errorf("provider credentials email data is nil")
	}
	return s.send(ctx, templateProviderCredentials, data.Email, data)
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	err = s.mailer.Send(ctx, to, subject, textBody)
	s.metrics.Email(template, err)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "to", to)
	return nil
}
