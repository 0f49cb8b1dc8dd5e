package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"fixit/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeInviteRepo is an in-memory InviteRepository.
type fakeInviteRepo struct {
	mu         sync.Mutex
	byToken    map[string]*domain.Invite
	createErr  error
	getErr     error
	claimErr   error
	setUIDErr  error
	releases   int
	claimCalls int
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{byToken: make(map[string]*domain.Invite)}
}

func (f *fakeInviteRepo) Create(ctx context.Context, inv *domain.Invite) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *inv
	f.byToken[inv.Token] = &cp
	return nil
}

func (f *fakeInviteRepo) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byToken[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInviteRepo) ClaimPending(ctx context.Context, token string, approvedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimCalls++
	if f.claimErr != nil {
		return false, f.claimErr
	}
	inv, ok := f.byToken[token]
	if !ok || inv.Status != domain.InviteStatusPending {
		return false, nil
	}
	inv.Status = domain.InviteStatusApproved
	inv.ApprovedAt = &approvedAt
	return true, nil
}

func (f *fakeInviteRepo) ReleaseClaim(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	inv, ok := f.byToken[token]
	if !ok || inv.Status != domain.InviteStatusApproved || inv.AdminUID != "" {
		return domain.ErrClaimNotHeld
	}
	inv.Status = domain.InviteStatusPending
	inv.ApprovedAt = nil
	return nil
}

func (f *fakeInviteRepo) SetAdminUID(ctx context.Context, token, adminUID string) error {
	if f.setUIDErr != nil {
		return f.setUIDErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byToken[token]
	if !ok {
		return domain.ErrNotFound
	}
	inv.AdminUID = adminUID
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu       sync.Mutex
	byUID    map[string]*domain.UserProfile
	admins   map[string]*domain.AdminRecord
	getErr   error
	writeErr error
	writes   int
	upserts  int
	adminErr error
}

func newFakeUserRepo(profiles ...*domain.UserProfile) *fakeUserRepo {
	f := &fakeUserRepo{
		byUID:  make(map[string]*domain.UserProfile),
		admins: make(map[string]*domain.AdminRecord),
	}
	for _, p := range profiles {
		f.byUID[p.UID] = p
	}
	return f
}

func (f *fakeUserRepo) GetByUID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUID[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, p *domain.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := *p
	f.byUID[p.UID] = &cp
	return nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := *p
	f.byUID[p.UID] = &cp
	return nil
}

func (f *fakeUserRepo) CreateAdminRecord(ctx context.Context, a *domain.AdminRecord) error {
	if f.adminErr != nil {
		return f.adminErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.admins[a.UID] = &cp
	return nil
}

// fakeIdentity is an in-memory IdentityService.
type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	created  []domain.CreateAccountParams
	err      error
	nextID   int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: make(map[string]*domain.Account)}
}

func (f *fakeIdentity) CreateAccount(ctx context.Context, params domain.CreateAccountParams) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.accounts[params.Email]; ok {
		return nil, domain.ErrEmailAlreadyExists
	}
	f.nextID++
	acct := &domain.Account{UID: fmt.Sprintf("uid-%d", f.nextID), Email: params.Email, DisplayName: params.DisplayName}
	f.accounts[params.Email] = acct
	f.created = append(f.created, params)
	return acct, nil
}

func (f *fakeIdentity) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	return nil, errors.New("not implemented")
}

// fakeEmailService records every email it is asked to send.
type fakeEmailService struct {
	mu                 sync.Mutex
	invites            []*domain.AdminInviteEmailData
	adminCredentials   []*domain.AdminCredentialsEmailData
	rejections         []*domain.ContractorRejectedEmailData
	providerCredential []*domain.ProviderCredentialsEmailData
	err                error
}

func (f *fakeEmailService) SendAdminInvite(ctx context.Context, data *domain.AdminInviteEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites = append(f.invites, data)
	return f.err
}

func (f *fakeEmailService) SendAdminCredentials(ctx context.Context, data *domain.AdminCredentialsEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adminCredentials = append(f.adminCredentials, data)
	return f.err
}

func (f *fakeEmailService) SendContractorRejected(ctx context.Context, data *domain.ContractorRejectedEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejections = append(f.rejections, data)
	return f.err
}

func (f *fakeEmailService) SendProviderCredentials(ctx context.Context, data *domain.ProviderCredentialsEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providerCredential = append(f.providerCredential, data)
	return f.err
}

// fakeContractorRepo serves contractor records and records provider links.
type fakeContractorRepo struct {
	records map[string]*domain.ContractorRecord
	links   []*domain.ProviderLink
	getErr  error
	err     error
}

func newFakeContractorRepo(records map[string]*domain.ContractorRecord) *fakeContractorRepo {
	return &fakeContractorRepo{records: records}
}

func (f *fakeContractorRepo) GetByID(ctx context.Context, id string) (*domain.ContractorRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeContractorRepo) UpsertProviderLink(ctx context.Context, link *domain.ProviderLink) error {
	if f.err != nil {
		return f.err
	}
	cp := *link
	f.links = append(f.links, &cp)
	return nil
}
