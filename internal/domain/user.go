package domain

import (
	"context"
	"time"
)

// Role is the application role stored on a user profile.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleContractor Role = "contractor"
	RoleProvider   Role = "provider"
)

// UserProfile is the Store profile of an identity-service account, keyed by UID.
// swagger:model UserProfile
type UserProfile struct {
	UID          string    `json:"uid"`
	Role         Role      `json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	ContractorID string    `json:"contractor_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminRecord mirrors an admin profile in the admins collection.
type AdminRecord struct {
	UID       string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

// Caller is the authenticated identity behind a callable request.
// A zero UID means the request carried no identity.
type Caller struct {
	UID   string
	Email string
}

// Authenticated reports whether the caller carries an identity.
func (c Caller) Authenticated() bool {
	return c.UID != ""
}

// UserRepository defines storage for user profiles and the admins mirror.
type UserRepository interface {
	GetByUID(ctx context.Context, uid string) (*UserProfile, error)
	// Create writes a new profile, replacing any existing one.
	Create(ctx context.Context, p *UserProfile) error
	// Upsert merges the profile into an existing row or inserts it.
	Upsert(ctx context.Context, p *UserProfile) error
	CreateAdminRecord(ctx context.Context, a *AdminRecord) error
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated account.
type TokenIssuer interface {
	Issue(uid, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the caller it identifies.
type TokenVerifier interface {
	Verify(token string) (Caller, error)
}
