package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fixit/internal/domain"
)

type directory struct {
	accounts domain.AccountRepository
	hasher   domain.PasswordHasher
	now      func() time.Time
}

// NewDirectory returns an IdentityService that keeps accounts in the given repository
// and stores only password hashes.
func NewDirectory(accounts domain.AccountRepository, hasher domain.PasswordHasher) domain.IdentityService {
	return &directory{accounts: accounts, hasher: hasher, now: time.Now}
}

func (d *directory) CreateAccount(ctx context.Context, params domain.CreateAccountParams) (*domain.Account, error) {
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, fmt.Errorf("create account: email is required")
	}
	if params.Password == "" {
		return nil, fmt.Errorf("create account: password is required")
	}
	hash, err := d.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	acct := &domain.Account{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(params.DisplayName),
		PasswordHash: hash,
		CreatedAt:    d.now().UTC(),
	}
	if err := d.accounts.Create(ctx, acct); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return acct, nil
}

func (d *directory) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	acct, err := d.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if err := d.hasher.Compare(acct.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return acct, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
