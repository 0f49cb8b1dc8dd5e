package domain

import (
	"context"
	"time"
)

// InviteStatus is the lifecycle state of an admin invite.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusApproved InviteStatus = "approved"
)

// Invite is a pending admin registration keyed by an unguessable token.
// swagger:model Invite
type Invite struct {
	Token      string       `json:"token"`
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Email      string       `json:"email"`
	CreatedBy  string       `json:"created_by"`
	CreatedAt  time.Time    `json:"created_at"`
	Status     InviteStatus `json:"status"`
	ApprovedAt *time.Time   `json:"approved_at,omitempty"`
	AdminUID   string       `json:"admin_uid,omitempty"`
}

// InviteRepository defines storage operations for admin invites.
type InviteRepository interface {
	Create(ctx context.Context, inv *Invite) error
	GetByToken(ctx context.Context, token string) (*Invite, error)
	// ClaimPending atomically moves a pending invite to approved.
	// It returns false when the invite was not pending.
	ClaimPending(ctx context.Context, token string, approvedAt time.Time) (bool, error)
	// ReleaseClaim moves a claimed invite back to pending while no admin account is linked.
	ReleaseClaim(ctx context.Context, token string) error
	SetAdminUID(ctx context.Context, token, adminUID string) error
}

// CreateInviteInput is the payload of createAdminInvite.
type CreateInviteInput struct {
	FirstName string
	LastName  string
	Email     string
}

// ApprovalOutcome reports what ApproveInvite did.
type ApprovalOutcome int

const (
	ApprovalCreated ApprovalOutcome = iota
	ApprovalAlreadyApproved
)

// ApprovalResult is returned by AdminInviteService.ApproveInvite.
type ApprovalResult struct {
	Outcome  ApprovalOutcome
	AdminUID string
}

// AdminInviteService issues and approves admin invites.
type AdminInviteService interface {
	CreateInvite(ctx context.Context, caller Caller, in CreateInviteInput) (*Invite, error)
	ApproveInvite(ctx context.Context, token string) (ApprovalResult, error)
	GetInvite(ctx context.Context, token string) (*Invite, error)
}
