package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"fixit/internal/domain"
)

// SMTPConfig holds configuration for an authenticated SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SMTP        SMTPConfig
	SES         SESConfig
}

// NewMailer creates a mailer from config. Provider "smtp" sends through an SMTP relay,
// "ses" uses AWS SES, and "noop" or unknown uses a no-op mailer.
// Missing credentials or sender address disable sending instead of failing startup.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch config.Provider {
	case "smtp":
		c := config.SMTP
		if c.Username == "" || c.Password == "" {
			logger.Warn("SMTP credentials are missing, emails will not be sent",
				"hint", "set SMTP_USER and SMTP_PASS")
			return &noopMailer{logger: logger}, nil
		}
		from := config.FromAddress
		if from == "" {
			from = c.Username
		}
		return &smtpMailer{
			addr:        net.JoinHostPort(c.Host, c.Port),
			auth:        smtp.PlainAuth("", c.Username, c.Password, c.Host),
			fromAddress: from,
			fromName:    config.FromName,
			send:        smtp.SendMail,
			logger:      logger,
		}, nil
	case "ses":
		sesConfig := config.SES
		if sesConfig.AccessKeyID == "" || sesConfig.SecretAccessKey == "" || config.FromAddress == "" {
			logger.Warn("SES credentials or sender address are missing, emails will not be sent",
				"hint", "set AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and SES_FROM_ADDRESS")
			return &noopMailer{logger: logger}, nil
		}
		if sesConfig.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES. Use only in development.")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: sesConfig.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: sesConfig.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					sesConfig.AccessKeyID,
					sesConfig.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		client := ses.NewFromConfig(awsCfg)
		return &sesMailer{
			client:      client,
			fromAddress: config.FromAddress,
			fromName:    config.FromName,
			logger:      logger,
		}, nil
	case "noop":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", config.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

func formatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%q <%s>", name, address)
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	addr        string
	auth        smtp.Auth
	fromAddress string
	fromName    string
	send        sendMailFunc
	logger      *slog.Logger
}

func (s *smtpMailer) Send(ctx context.Context, to, subject, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "sending email", "to", to, "subject", subject)
	msg := buildMessage(formatAddress(s.fromName, s.fromAddress), to, subject, text)
	if err := s.send(s.addr, s.auth, s.fromAddress, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent", "to", to)
	return nil
}

// buildMessage renders an RFC 5322 plaintext message with CRLF line endings.
func buildMessage(from, to, subject, text string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	body := strings.ReplaceAll(text, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

func (s *sesMailer) Send(ctx context.Context, to, subject, text string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(formatAddress(s.fromName, s.fromAddress)),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(text),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent via SES", "to", to, "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, text string) error {
	n.logger.WarnContext(ctx, "email not sent, mailer disabled", "to", to, "subject", subject)
	return nil
}
