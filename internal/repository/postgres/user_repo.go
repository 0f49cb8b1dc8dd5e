package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fixit/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a domain.UserRepository implemented with Postgres.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) GetByUID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	query := `
		SELECT uid, role, first_name, last_name, email, contractor_id, created_at
		FROM users
		WHERE uid = $1
	`
	p := &domain.UserProfile{}
	var role string
	var contractorID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, uid).Scan(&p.UID, &role, &p.FirstName, &p.LastName, &p.Email, &contractorID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Role = domain.Role(role)
	p.ContractorID = contractorID.String
	return p, nil
}

// Create replaces the whole profile row.
func (r *userRepository) Create(ctx context.Context, p *domain.UserProfile) error {
	query := `
		INSERT INTO users (uid, role, first_name, last_name, email, contractor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (uid) DO UPDATE SET
			role = EXCLUDED.role,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			contractor_id = EXCLUDED.contractor_id,
			created_at = EXCLUDED.created_at
	`
	_, err := r.DB.ExecContext(ctx, query, p.UID, string(p.Role), p.FirstName, p.LastName, p.Email, nullString(p.ContractorID), p.CreatedAt)
	return err
}

// Upsert merges the profile into an existing row. created_at is kept from the first write
// and an empty contractor id does not clear a stored one.
func (r *userRepository) Upsert(ctx context.Context, p *domain.UserProfile) error {
	query := `
		INSERT INTO users (uid, role, first_name, last_name, email, contractor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (uid) DO UPDATE SET
			role = EXCLUDED.role,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			contractor_id = COALESCE(EXCLUDED.contractor_id, users.contractor_id)
	`
	_, err := r.DB.ExecContext(ctx, query, p.UID, string(p.Role), p.FirstName, p.LastName, p.Email, nullString(p.ContractorID), p.CreatedAt)
	return err
}

func (r *userRepository) CreateAdminRecord(ctx context.Context, a *domain.AdminRecord) error {
	query := `
		INSERT INTO admins (uid, first_name, last_name, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			created_at = EXCLUDED.created_at
	`
	_, err := r.DB.ExecContext(ctx, query, a.UID, a.FirstName, a.LastName, a.Email, a.CreatedAt)
	return err
}
