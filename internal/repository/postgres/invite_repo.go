package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fixit/internal/domain"
)

type inviteRepository struct {
	DB *sql.DB
}

// NewInviteRepository returns a domain.InviteRepository implemented with Postgres.
func NewInviteRepository(db *sql.DB) domain.InviteRepository {
	return &inviteRepository{DB: db}
}

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	query := `
		INSERT INTO admin_invites (token, first_name, last_name, email, created_by, created_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query, inv.Token, inv.FirstName, inv.LastName, inv.Email, inv.CreatedBy, inv.CreatedAt, string(inv.Status))
	return err
}

func (r *inviteRepository) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	query := `
		SELECT token, first_name, last_name, email, created_by, created_at, status, approved_at, admin_uid
		FROM admin_invites
		WHERE token = $1
	`
	inv := &domain.Invite{}
	var status string
	var approvedAt sql.NullTime
	var adminUID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&inv.Token, &inv.FirstName, &inv.LastName, &inv.Email, &inv.CreatedBy, &inv.CreatedAt,
		&status, &approvedAt, &adminUID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	inv.Status = domain.InviteStatus(status)
	if approvedAt.Valid {
		inv.ApprovedAt = &approvedAt.Time
	}
	inv.AdminUID = adminUID.String
	return inv, nil
}

func (r *inviteRepository) ClaimPending(ctx context.Context, token string, approvedAt time.Time) (bool, error) {
	query := `
		UPDATE admin_invites
		SET status = 'approved', approved_at = $2
		WHERE token = $1 AND status = 'pending'
	`
	res, err := r.DB.ExecContext(ctx, query, token, approvedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *inviteRepository) ReleaseClaim(ctx context.Context, token string) error {
	query := `
		UPDATE admin_invites
		SET status = 'pending', approved_at = NULL
		WHERE token = $1 AND status = 'approved' AND admin_uid IS NULL
	`
	res, err := r.DB.ExecContext(ctx, query, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrClaimNotHeld
	}
	return nil
}

func (r *inviteRepository) SetAdminUID(ctx context.Context, token, adminUID string) error {
	query := `UPDATE admin_invites SET admin_uid = $2 WHERE token = $1`
	res, err := r.DB.ExecContext(ctx, query, token, adminUID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
