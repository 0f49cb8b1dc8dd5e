package controllers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"fixit/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeInviteService implements domain.AdminInviteService for handler tests.
type fakeInviteService struct {
	lastCaller   domain.Caller
	lastInput    domain.CreateInviteInput
	lastToken    string
	createErr    error
	approveRes   domain.ApprovalResult
	approveErr   error
	approveCalls int
}

func (f *fakeInviteService) CreateInvite(ctx context.Context, caller domain.Caller, in domain.CreateInviteInput) (*domain.Invite, error) {
	f.lastCaller = caller
	f.lastInput = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Invite{Token: "tok", Status: domain.InviteStatusPending}, nil
}

func (f *fakeInviteService) ApproveInvite(ctx context.Context, token string) (domain.ApprovalResult, error) {
	f.approveCalls++
	f.lastToken = token
	return f.approveRes, f.approveErr
}

func (f *fakeInviteService) GetInvite(ctx context.Context, token string) (*domain.Invite, error) {
	return nil, domain.ErrNotFound
}

// fakeProviderService implements domain.ProviderService for handler tests.
type fakeProviderService struct {
	lastCaller domain.Caller
	lastInput  domain.CreateProviderInput
	res        *domain.CreateProviderResult
	err        error
}

func (f *fakeProviderService) CreateProviderAccount(ctx context.Context, caller domain.Caller, in domain.CreateProviderInput) (*domain.CreateProviderResult, error) {
	f.lastCaller = caller
	f.lastInput = in
	return f.res, f.err
}

// fakeIdentity implements domain.IdentityService for handler tests.
type fakeIdentity struct {
	acct *domain.Account
	err  error
}

func (f *fakeIdentity) CreateAccount(ctx context.Context, params domain.CreateAccountParams) (*domain.Account, error) {
	return nil, domain.ErrEmailAlreadyExists
}

func (f *fakeIdentity) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	return f.acct, f.err
}

// fakeIssuer implements domain.TokenIssuer for handler tests.
type fakeIssuer struct {
	token  string
	err    error
	expiry time.Duration
}

func (f *fakeIssuer) Issue(uid, email string, expiry time.Duration) (string, error) {
	f.expiry = expiry
	return f.token, f.err
}
