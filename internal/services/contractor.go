package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fixit/internal/domain"
	"fixit/internal/metrics"
)

const (
	defaultCompanyName     = "your firm"
	defaultRejectionReason = "No specific reason was provided."
)

type contractorService struct {
	userRepo       domain.UserRepository
	contractorRepo domain.ContractorRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// NewContractorService returns the service that notifies contractors of rejected registrations.
func NewContractorService(
	userRepo domain.UserRepository,
	contractorRepo domain.ContractorRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	m *metrics.Metrics,
) domain.ContractorService {
	return &contractorService{
		userRepo:       userRepo,
		contractorRepo: contractorRepo,
		emailService:   emailService,
		logger:         logger,
		metrics:        m,
	}
}

// HandleStatusChange emails a rejection notice when a contractor moves from pending to rejected.
// Every other transition is ignored. An unresolvable address and a failed send are logged, not returned.
func (s *contractorService) HandleStatusChange(ctx context.Context, change domain.ContractorChange) error {
	var before, after domain.ContractorRecord
	if change.Before != nil {
		before = *change.Before
	}
	if change.After != nil {
		after = *change.After
	}
	if before.EffectiveStatus() != domain.ContractorStatusPending || after.EffectiveStatus() != domain.ContractorStatusRejected {
		return nil
	}
	s.metrics.ContractorRejected()

	after, err := s.loadDetails(ctx, change.ContractorID, after)
	if err != nil {
		return err
	}

	email, err := s.resolveEmail(ctx, change.ContractorID, after)
	if err != nil {
		return err
	}
	if email == "" {
		s.logger.InfoContext(ctx, "no email found for contractor", "contractor_id", change.ContractorID)
		return nil
	}

	companyName := after.CompanyName
	if companyName == "" {
		companyName = defaultCompanyName
	}
	reason := after.RejectionReason
	if strings.TrimSpace(reason) == "" {
		reason = defaultRejectionReason
	}

	data := &domain.ContractorRejectedEmailData{
		Email:       email,
		CompanyName: companyName,
		Reason:      reason,
	}
	if err := s.emailService.SendContractorRejected(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to send rejection email", "contractor_id", change.ContractorID, "err", err)
		return nil
	}
	s.logger.InfoContext(ctx, "rejection email sent", "contractor_id", change.ContractorID)
	return nil
}

// loadDetails reads the company and reason fields from the stored record, keeping the
// snapshot when the record is gone.
func (s *contractorService) loadDetails(ctx context.Context, contractorID string, snapshot domain.ContractorRecord) (domain.ContractorRecord, error) {
	if contractorID == "" {
		return snapshot, nil
	}
	rec, err := s.contractorRepo.GetByID(ctx, contractorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return snapshot, nil
		}
		return snapshot, fmt.Errorf("load contractor %s: %w", contractorID, err)
	}
	snapshot.CompanyName = rec.CompanyName
	snapshot.CompanyEmail = rec.CompanyEmail
	snapshot.RejectionReason = rec.RejectionReason
	return snapshot, nil
}

// resolveEmail prefers the company email on the record, then the contractor's user profile.
func (s *contractorService) resolveEmail(ctx context.Context, contractorID string, after domain.ContractorRecord) (string, error) {
	if after.CompanyEmail != "" {
		return after.CompanyEmail, nil
	}
	if contractorID == "" {
		return "", nil
	}
	profile, err := s.userRepo.GetByUID(ctx, contractorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("look up contractor %s: %w", contractorID, err)
	}
	return profile.Email, nil
}
