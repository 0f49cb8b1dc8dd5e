package domain

import "context"

// Mailer defines the contract for sending plaintext emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, textBody string, err error)
}

// AdminInviteEmailData holds data for the admin approval link email.
type AdminInviteEmailData struct {
	Email        string
	FirstName    string
	ApprovalLink string
}

// AdminCredentialsEmailData holds data for the approved-admin credentials email.
type AdminCredentialsEmailData struct {
	Email     string
	FirstName string
	Password  string
}

// ContractorRejectedEmailData holds data for the contractor rejection notice.
type ContractorRejectedEmailData struct {
	Email       string
	CompanyName string
	Reason      string
}

// ProviderCredentialsEmailData holds data for the new provider credentials email.
type ProviderCredentialsEmailData struct {
	Email     string
	FirstName string
	Password  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendAdminInvite(ctx context.Context, data *AdminInviteEmailData) error
	SendAdminCredentials(ctx context.Context, data *AdminCredentialsEmailData) error
	SendContractorRejected(ctx context.Context, data *ContractorRejectedEmailData) error
	SendProviderCredentials(ctx context.Context, data *ProviderCredentialsEmailData) error
}
