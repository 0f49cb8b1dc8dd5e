package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"fixit/internal/domain"
	"fixit/internal/metrics"
)

type adminInviteService struct {
	inviteRepo   domain.InviteRepository
	userRepo     domain.UserRepository
	identity     domain.IdentityService
	emailService domain.EmailService
	approvalURL  string
	logger       *slog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewAdminInviteService creates the admin invite workflow. approvalURL is the absolute URL of
// the approval endpoint; the invite token is appended as the "token" query parameter.
func NewAdminInviteService(
	inviteRepo domain.InviteRepository,
	userRepo domain.UserRepository,
	identity domain.IdentityService,
	emailService domain.EmailService,
	approvalURL string,
	logger *slog.Logger,
	m *metrics.Metrics,
) domain.AdminInviteService {
	return &adminInviteService{
		inviteRepo:   inviteRepo,
		userRepo:     userRepo,
		identity:     identity,
		emailService: emailService,
		approvalURL:  approvalURL,
		logger:       logger,
		metrics:      m,
		now:          time.Now,
	}
}

func (s *adminInviteService) CreateInvite(ctx context.Context, caller domain.Caller, in domain.CreateInviteInput) (*domain.Invite, error) {
	if !caller.Authenticated() {
		return nil, domain.NewError(domain.CodeUnauthenticated, "You must be logged in.")
	}
	if err := requireRole(ctx, s.userRepo, caller.UID, domain.RoleAdmin, "Only admins can create other admins."); err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.TrimSpace(in.Email)
	if firstName == "" || lastName == "" || !looksLikeEmail(email) {
		return nil, domain.NewError(domain.CodeInvalidArgument, "Invalid name or email.")
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternal, "Failed to create invite.", err)
	}
	inv := &domain.Invite{
		Token:     token,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedBy: caller.UID,
		CreatedAt: s.now().UTC(),
		Status:    domain.InviteStatusPending,
	}
	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		return nil, domain.WrapError(domain.CodeInternal, "Failed to create invite.", err)
	}
	s.metrics.InviteIssued()

	data := &domain.AdminInviteEmailData{
		Email:        email,
		FirstName:    firstName,
		ApprovalLink: s.approvalLink(token),
	}
	if err := s.emailService.SendAdminInvite(ctx, data); err != nil {
		// The invite stays pending; the caller may issue a new one.
		s.logger.ErrorContext(ctx, "failed to send admin invite email", "created_by", caller.UID, "err", err)
		return nil, domain.WrapError(domain.CodeInternal, "Failed to send the approval email.", err)
	}
	return inv, nil
}

func (s *adminInviteService) approvalLink(token string) string {
	sep := "?"
	if strings.Contains(s.approvalURL, "?") {
		sep = "&"
	}
	return s.approvalURL + sep + "token=" + url.QueryEscape(token)
}

func (s *adminInviteService) GetInvite(ctx context.Context, token string) (*domain.Invite, error) {
	inv, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.CodeNotFound, "Invalid or expired invitation.")
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

// ApproveInvite creates the admin account for a pending invite. The pending to approved
// transition is claimed atomically before any account is created, so concurrent visits of
// the same link create at most one account.
func (s *adminInviteService) ApproveInvite(ctx context.Context, token string) (domain.ApprovalResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		s.metrics.Approval(metrics.ApprovalInvalidToken)
		return domain.ApprovalResult{}, domain.NewError(domain.CodeInvalidArgument, "Missing or invalid token.")
	}
	inv, err := s.GetInvite(ctx, token)
	if err != nil {
		if domain.ErrorCodeOf(err) == domain.CodeNotFound {
			s.metrics.Approval(metrics.ApprovalInvalidToken)
		}
		return domain.ApprovalResult{}, err
	}
	if inv.Status == domain.InviteStatusApproved {
		s.metrics.Approval(metrics.ApprovalAlreadyApproved)
		return domain.ApprovalResult{Outcome: domain.ApprovalAlreadyApproved, AdminUID: inv.AdminUID}, nil
	}

	claimed, err := s.inviteRepo.ClaimPending(ctx, token, s.now().UTC())
	if err != nil {
		return domain.ApprovalResult{}, s.approvalFailed(fmt.Errorf("claim invite: %w", err))
	}
	if !claimed {
		s.metrics.Approval(metrics.ApprovalAlreadyApproved)
		return domain.ApprovalResult{Outcome: domain.ApprovalAlreadyApproved}, nil
	}

	password, err := newPassword()
	if err != nil {
		s.releaseClaim(ctx, token)
		return domain.ApprovalResult{}, s.approvalFailed(err)
	}
	acct, err := s.identity.CreateAccount(ctx, domain.CreateAccountParams{
		Email:       inv.Email,
		Password:    password,
		DisplayName: inv.FirstName + " " + inv.LastName,
	})
	if err != nil {
		s.releaseClaim(ctx, token)
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			s.metrics.Approval(metrics.ApprovalFailed)
			return domain.ApprovalResult{}, domain.WrapError(domain.CodeAlreadyExists, "An account with this email already exists.", err)
		}
		return domain.ApprovalResult{}, s.approvalFailed(fmt.Errorf("create account: %w", err))
	}

	// From here on the account exists; failures leave partial state and are only logged.
	now := s.now().UTC()
	profile := &domain.UserProfile{
		UID:       acct.UID,
		Role:      domain.RoleAdmin,
		FirstName: inv.FirstName,
		LastName:  inv.LastName,
		Email:     inv.Email,
		CreatedAt: now,
	}
	if err := s.userRepo.Create(ctx, profile); err != nil {
		return domain.ApprovalResult{}, s.approvalFailed(fmt.Errorf("write admin profile %s: %w", acct.UID, err))
	}
	admin := &domain.AdminRecord{
		UID:       acct.UID,
		FirstName: inv.FirstName,
		LastName:  inv.LastName,
		Email:     inv.Email,
		CreatedAt: now,
	}
	if err := s.userRepo.CreateAdminRecord(ctx, admin); err != nil {
		return domain.ApprovalResult{}, s.approvalFailed(fmt.Errorf("write admin record %s: %w", acct.UID, err))
	}
	if err := s.inviteRepo.SetAdminUID(ctx, token, acct.UID); err != nil {
		return domain.ApprovalResult{}, s.approvalFailed(fmt.Errorf("link invite to %s: %w", acct.UID, err))
	}

	data := &domain.AdminCredentialsEmailData{
		Email:     inv.Email,
		FirstName: inv.FirstName,
		Password:  password,
	}
	if err := s.emailService.SendAdminCredentials(ctx, data); err != nil {
		return domain.ApprovalResult{}, s.approvalFailed(fmt.Errorf("send credentials to %s: %w", acct.UID, err))
	}

	s.metrics.Approval(metrics.ApprovalCreated)
	s.logger.InfoContext(ctx, "admin invite approved", "admin_uid", acct.UID, "created_by", inv.CreatedBy)
	return domain.ApprovalResult{Outcome: domain.ApprovalCreated, AdminUID: acct.UID}, nil
}

func (s *adminInviteService) releaseClaim(ctx context.Context, token string) {
	if err := s.inviteRepo.ReleaseClaim(ctx, token); err != nil {
		s.logger.ErrorContext(ctx, "failed to release invite claim", "err", err)
	}
}

func (s *adminInviteService) approvalFailed(err error) error {
	s.metrics.Approval(metrics.ApprovalFailed)
	return domain.WrapError(domain.CodeInternal, "Failed to approve the invitation.", err)
}
