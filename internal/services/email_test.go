package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixit/internal/adapters/email"
	"fixit/internal/domain"
	"fixit/internal/metrics"
)

type sentMail struct {
	to, subject, text string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, text string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, text: text})
	return m.err
}

type failingRenderer struct{}

func (failingRenderer) Render(string, any) (string, string, error) {
	return "", "", errors.New("template missing")
}

func TestEmailService_rendersAndSends(t *testing.T) {
	tests := []struct {
		name        string
		send        func(s domain.EmailService) error
		wantTo      string
		wantSubject string
		wantInText  []string
	}{
		{
			name: "admin invite",
			send: func(s domain.EmailService) error {
				return s.SendAdminInvite(context.Background(), &domain.AdminInviteEmailData{
					Email: "ann@x.com", FirstName: "Ann", ApprovalLink: "https://fixit.test/approve?token=abc",
				})
			},
			wantTo:      "ann@x.com",
			wantSubject: "FixIt admin approval link",
			wantInText:  []string{"Hi Ann,", "https://fixit.test/approve?token=abc"},
		},
		{
			name: "admin credentials",
			send: func(s domain.EmailService) error {
				return s.SendAdminCredentials(context.Background(), &domain.AdminCredentialsEmailData{
					Email: "ann@x.com", FirstName: "Ann", Password: "Pw0123456789",
				})
			},
			wantTo:      "ann@x.com",
			wantSubject: "Your FixIt admin account",
			wantInText:  []string{"Email: ann@x.com", "Password: Pw0123456789"},
		},
		{
			name: "contractor rejected",
			send: func(s domain.EmailService) error {
				return s.SendContractorRejected(context.Background(), &domain.ContractorRejectedEmailData{
					Email: "a@acme.com", CompanyName: "Acme", Reason: "Incomplete docs",
				})
			},
			wantTo:      "a@acme.com",
			wantSubject: "Your FixIt contractor registration was rejected",
			wantInText:  []string{`"Acme"`, "Incomplete docs"},
		},
		{
			name: "provider credentials",
			send: func(s domain.EmailService) error {
				return s.SendProviderCredentials(context.Background(), &domain.ProviderCredentialsEmailData{
					Email: "p@x.com", FirstName: "Pat", Password: "secret1",
				})
			},
			wantTo:      "p@x.com",
			wantSubject: "Your FixIt provider account",
			wantInText:  []string{"Hi Pat,", "Password: secret1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{}
			svc := NewEmailService(mailer, email.NewTemplateRenderer(), discardLogger(), nil)

			require.NoError(t, tt.send(svc))
			require.Len(t, mailer.sent, 1)
			assert.Equal(t, tt.wantTo, mailer.sent[0].to)
			assert.Equal(t, tt.wantSubject, mailer.sent[0].subject)
			for _, want := range tt.wantInText {
				assert.Contains(t, mailer.sent[0].text, want)
			}
		})
	}
}

func TestEmailService_nilData(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewEmailService(mailer, email.NewTemplateRenderer(), discardLogger(), nil)
	ctx := context.Background()

	assert.Error(t, svc.SendAdminInvite(ctx, nil))
	assert.Error(t, svc.SendAdminCredentials(ctx, nil))
	assert.Error(t, svc.SendContractorRejected(ctx, nil))
	assert.Error(t, svc.SendProviderCredentials(ctx, nil))
	assert.Empty(t, mailer.sent)
}

func TestEmailService_renderFailureSkipsSend(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewEmailService(mailer, failingRenderer{}, discardLogger(), nil)

	err := svc.SendAdminInvite(context.Background(), &domain.AdminInviteEmailData{Email: "ann@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render")
	assert.Empty(t, mailer.sent)
}

func TestEmailService_sendFailureIsCounted(t *testing.T) {
	m := metrics.New()
	mailer := &fakeMailer{err: errors.New("relay refused")}
	svc := NewEmailService(mailer, email.NewTemplateRenderer(), discardLogger(), m)

	err := svc.SendProviderCredentials(context.Background(), &domain.ProviderCredentialsEmailData{
		Email: "p@x.com", FirstName: "Pat", Password: "secret1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, mailer.err)

	count, err := testutil.GatherAndCount(m.Registry(), "fixit_emails_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
