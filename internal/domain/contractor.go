package domain

import "context"

// ContractorStatusPending is assumed when a contractor record carries no status.
const ContractorStatusPending = "pending"

// ContractorStatusRejected marks a rejected contractor registration.
const ContractorStatusRejected = "rejected"

// ContractorRecord is a snapshot of a contractor document. It is owned elsewhere;
// this service only observes its transitions.
type ContractorRecord struct {
	ApprovalStatus  string `json:"approvalStatus,omitempty"`
	Status          string `json:"status,omitempty"`
	CompanyName     string `json:"companyName,omitempty"`
	CompanyEmail    string `json:"companyEmail,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// EffectiveStatus returns ApprovalStatus, falling back to Status, then to pending.
func (c ContractorRecord) EffectiveStatus() string {
	if c.ApprovalStatus != "" {
		return c.ApprovalStatus
	}
	if c.Status != "" {
		return c.Status
	}
	return ContractorStatusPending
}

// ContractorChange is one update event on a contractor record. Before and After carry
// only the status fields; the rest of the record is loaded from the store.
type ContractorChange struct {
	ContractorID string            `json:"contractor_id"`
	Before       *ContractorRecord `json:"before"`
	After        *ContractorRecord `json:"after"`
}

// ProviderLink links a contractor-managed provider listing to a provider account.
type ProviderLink struct {
	ContractorID  string
	ProviderDocID string
	ProviderUID   string
}

// ContractorRepository defines storage for contractor-owned records.
type ContractorRepository interface {
	GetByID(ctx context.Context, id string) (*ContractorRecord, error)
	UpsertProviderLink(ctx context.Context, link *ProviderLink) error
}

// ContractorService reacts to contractor record updates.
type ContractorService interface {
	HandleStatusChange(ctx context.Context, change ContractorChange) error
}

// CreateProviderInput is the payload of createProviderAccount.
type CreateProviderInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	ProviderDocID string
}

// CreateProviderResult is returned by createProviderAccount.
type CreateProviderResult struct {
	OK          bool   `json:"ok"`
	ProviderUID string `json:"providerUid"`
}

// ProviderService provisions provider accounts for contractors.
type ProviderService interface {
	CreateProviderAccount(ctx context.Context, caller Caller, in CreateProviderInput) (*CreateProviderResult, error)
}
