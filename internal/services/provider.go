package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"fixit/internal/domain"
	"fixit/internal/metrics"
)

const minProviderPasswordLen = 6

type providerService struct {
	userRepo       domain.UserRepository
	contractorRepo domain.ContractorRepository
	identity       domain.IdentityService
	emailService   domain.EmailService
	logger         *slog.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewProviderService returns the service contractors use to create provider accounts.
func NewProviderService(
	userRepo domain.UserRepository,
	contractorRepo domain.ContractorRepository,
	identity domain.IdentityService,
	emailService domain.EmailService,
	logger *slog.Logger,
	m *metrics.Metrics,
) domain.ProviderService {
	return &providerService{
		userRepo:       userRepo,
		contractorRepo: contractorRepo,
		identity:       identity,
		emailService:   emailService,
		logger:         logger,
		metrics:        m,
		now:            time.Now,
	}
}

func (s *providerService) CreateProviderAccount(ctx context.Context, caller domain.Caller, in domain.CreateProviderInput) (*domain.CreateProviderResult, error) {
	if !caller.Authenticated() {
		return nil, domain.NewError(domain.CodeUnauthenticated, "You must be logged in.")
	}
	if err := requireRole(ctx, s.userRepo, caller.UID, domain.RoleContractor, "Only contractors can create provider accounts."); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	providerDocID := strings.TrimSpace(in.ProviderDocID)

	if !looksLikeEmail(email) {
		return nil, domain.NewError(domain.CodeInvalidArgument, "Invalid email.")
	}
	if utf8.RuneCountInString(password) < minProviderPasswordLen {
		return nil, domain.NewError(domain.CodeInvalidArgument, "Password must be at least 6 characters.")
	}

	acct, err := s.identity.CreateAccount(ctx, domain.CreateAccountParams{
		Email:       email,
		Password:    password,
		DisplayName: strings.TrimSpace(firstName + " " + lastName),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "createProviderAccount failed", "contractor_id", caller.UID, "err", err)
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.WrapError(domain.CodeAlreadyExists, "A provider with this email already exists.", err)
		}
		return nil, domain.WrapError(domain.CodeInternal, err.Error(), err)
	}

	profile := &domain.UserProfile{
		UID:          acct.UID,
		Role:         domain.RoleProvider,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		ContractorID: caller.UID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.Upsert(ctx, profile); err != nil {
		s.logger.ErrorContext(ctx, "createProviderAccount failed", "contractor_id", caller.UID, "provider_uid", acct.UID, "err", err)
		return nil, domain.WrapError(domain.CodeInternal, err.Error(), err)
	}

	if providerDocID != "" {
		link := &domain.ProviderLink{
			ContractorID:  caller.UID,
			ProviderDocID: providerDocID,
			ProviderUID:   acct.UID,
		}
		if err := s.contractorRepo.UpsertProviderLink(ctx, link); err != nil {
			s.logger.ErrorContext(ctx, "createProviderAccount failed", "contractor_id", caller.UID, "provider_uid", acct.UID, "err", err)
			return nil, domain.WrapError(domain.CodeInternal, err.Error(), err)
		}
	}
	s.metrics.ProviderCreated()

	data := &domain.ProviderCredentialsEmailData{
		Email:     email,
		FirstName: firstName,
		Password:  password,
	}
	if err := s.emailService.SendProviderCredentials(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "email sending failed", "provider_uid", acct.UID, "err", err)
	}

	return &domain.CreateProviderResult{OK: true, ProviderUID: acct.UID}, nil
}
