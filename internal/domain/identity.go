package domain

import (
	"context"
	"time"
)

// Account is an identity-service account.
type Account struct {
	UID          string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateAccountParams describes a new identity-service account.
type CreateAccountParams struct {
	Email       string
	Password    string
	DisplayName string
}

// AccountRepository stores identity-service accounts.
type AccountRepository interface {
	// Create inserts the account. It returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, a *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

// IdentityService creates and authenticates accounts.
type IdentityService interface {
	CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error)
	Authenticate(ctx context.Context, email, password string) (*Account, error)
}
