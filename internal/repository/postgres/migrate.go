package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    uid text PRIMARY KEY,
    email text NOT NULL,
    password_hash text NOT NULL,
    display_name text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_lower_unique
ON accounts (LOWER(email));

CREATE TABLE IF NOT EXISTS users (
    uid text PRIMARY KEY,
    role text NOT NULL,
    first_name text NOT NULL DEFAULT '',
    last_name text NOT NULL DEFAULT '',
    email text NOT NULL DEFAULT '',
    contractor_id text,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS admins (
    uid text PRIMARY KEY,
    first_name text NOT NULL DEFAULT '',
    last_name text NOT NULL DEFAULT '',
    email text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS admin_invites (
    token text PRIMARY KEY,
    first_name text NOT NULL,
    last_name text NOT NULL,
    email text NOT NULL,
    created_by text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    status text NOT NULL DEFAULT 'pending',
    approved_at timestamptz,
    admin_uid text
);

CREATE TABLE IF NOT EXISTS contractors (
    id text PRIMARY KEY,
    approval_status text,
    status text,
    company_name text,
    company_email text,
    rejection_reason text,
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS contractor_providers (
    contractor_id text NOT NULL,
    provider_doc_id text NOT NULL,
    provider_uid text,
    PRIMARY KEY (contractor_id, provider_doc_id)
);

-- NOTIFY payloads are capped at 8000 bytes; only ids and statuses are sent,
-- the free-text columns are read back from the row by the consumer.
CREATE OR REPLACE FUNCTION notify_contractor_update() RETURNS trigger AS $$
BEGIN
    PERFORM pg_notify(__CHANNEL__, json_build_object(
        'contractor_id', NEW.id,
        'before', json_build_object(
            'approvalStatus', OLD.approval_status,
            'status', OLD.status
        ),
        'after', json_build_object(
            'approvalStatus', NEW.approval_status,
            'status', NEW.status
        )
    )::text);
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS contractors_notify_update ON contractors;
CREATE TRIGGER contractors_notify_update
AFTER UPDATE ON contractors
FOR EACH ROW EXECUTE FUNCTION notify_contractor_update();
`

// Schema returns the idempotent schema, with the contractor trigger notifying channel.
func Schema(channel string) string {
	return strings.ReplaceAll(schema, "__CHANNEL__", pq.QuoteLiteral(channel))
}

// Migrate creates the tables and the contractor update trigger if they do not exist.
func Migrate(ctx context.Context, db *sql.DB, channel string) error {
	if _, err := db.ExecContext(ctx, Schema(channel)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}
