package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fixit/internal/domain"
)

type accountRepository struct {
	DB *sql.DB
}

// NewAccountRepository returns a domain.AccountRepository implemented with Postgres.
func NewAccountRepository(db *sql.DB) domain.AccountRepository {
	return &accountRepository{DB: db}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (uid, email, password_hash, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, a.UID, a.Email, a.PasswordHash, a.DisplayName, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT uid, email, password_hash, display_name, created_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`
	a := &domain.Account{}
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&a.UID, &a.Email, &a.PasswordHash, &a.DisplayName, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
