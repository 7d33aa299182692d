package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/config"
)

// Email is a rendered message ready for transport.
type Email struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers rendered emails through an external provider.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

// NewSendGridSender constructs the sender.
func NewSendGridSender(cfg config.MailConfig, logger *zap.Logger) *SendGridSender {
	if cfg.SendGridAPIKey == "" {
		logger.Warn("SENDGRID_API_KEY not provided; email delivery will fail")
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send forwards the message to SendGrid. There is no retry or queue; a
// transport failure is returned to the caller.
func (s *SendGridSender) Send(ctx context.Context, email Email) error {
	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	to := sgmail.NewEmail(email.ToName, email.To)
	message := sgmail.NewSingleEmail(from, email.Subject, to, email.TextBody, email.HTMLBody)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}

	s.logger.Info("email sent", zap.String("to", email.To), zap.String("subject", email.Subject))
	return nil
}
