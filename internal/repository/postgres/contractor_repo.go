package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fixit/internal/domain"
)

type contractorRepository struct {
	DB *sql.DB
}

// NewContractorRepository returns a domain.ContractorRepository implemented with Postgres.
func NewContractorRepository(db *sql.DB) domain.ContractorRepository {
	return &contractorRepository{DB: db}
}

func (r *contractorRepository) UpsertProviderLink(ctx context.Context, link *domain.ProviderLink) error {
	query := `
		INSERT INTO contractor_providers (contractor_id, provider_doc_id, provider_uid)
		VALUES ($1, $2, $3)
		ON CONFLICT (contractor_id, provider_doc_id) DO UPDATE SET
			provider_uid = EXCLUDED.provider_uid
	`
	_, err := r.DB.ExecContext(ctx, query, link.ContractorID, link.ProviderDocID, link.ProviderUID)
	return err
}

func (r *contractorRepository) GetByID(ctx context.Context, id string) (*domain.ContractorRecord, error) {
	query := `
		SELECT approval_status, status, company_name, company_email, rejection_reason
		FROM contractors
		WHERE id = $1
	`
	var approvalStatus, status, companyName, companyEmail, reason sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&approvalStatus, &status, &companyName, &companyEmail, &reason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.ContractorRecord{
		ApprovalStatus:  approvalStatus.String,
		Status:          status.String,
		CompanyName:     companyName.String,
		CompanyEmail:    companyEmail.String,
		RejectionReason: reason.String,
	}, nil
}
