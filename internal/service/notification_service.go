package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/config"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/mail"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// NotificationService renders templates and hands them to the mail
// sender. Failures are logged and surfaced as DeliveryFailed; there is
// no retry or queue.
type NotificationService struct {
	sender  mail.Sender
	logger  *zap.Logger
	mailCfg config.MailConfig
	payment config.PaymentConfig
}

// NewNotificationService creates the service.
func NewNotificationService(sender mail.Sender, logger *zap.Logger, mailCfg config.MailConfig, payment config.PaymentConfig) *NotificationService {
	return &NotificationService{
		sender:  sender,
		logger:  logger,
		mailCfg: mailCfg,
		payment: payment,
	}
}

// SendWelcome delivers the post-registration welcome email.
func (n *NotificationService) SendWelcome(ctx context.Context, user *domain.User) error {
	html, err := mail.Render(mail.KindWelcome, mail.WelcomeData{
		FirstName: user.FirstName,
		LoginURL:  n.mailCfg.FrontendURL + "/login",
		Year:      mail.CurrentYear(),
	})
	if err != nil {
		return err
	}
	return n.deliver(ctx, user, "Welcome to the Association", html,
		fmt.Sprintf("Welcome %s! Your account is ready. Log in at %s/login.", user.FirstName, n.mailCfg.FrontendURL))
}

// SendPasswordReset delivers the reset link.
func (n *NotificationService) SendPasswordReset(ctx context.Context, user *domain.User, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", n.mailCfg.FrontendURL, token)
	html, err := mail.Render(mail.KindResetPassword, mail.ResetPasswordData{
		FirstName: user.FirstName,
		ResetURL:  resetURL,
		ExpiresIn: "15 minutes",
		Year:      mail.CurrentYear(),
	})
	if err != nil {
		return err
	}
	return n.deliver(ctx, user, "Reset Your Password", html,
		fmt.Sprintf("Reset your password: %s (expires in 15 minutes)", resetURL))
}

// SendOnboardingReceived confirms a new submission, including the
// selected tier summary when the tier is known.
func (n *NotificationService) SendOnboardingReceived(ctx context.Context, user *domain.User, app *domain.Application) error {
	html, err := mail.Render(mail.KindOnboardingReceived, mail.OnboardingReceivedData{
		FirstName:        user.FirstName,
		OrganizationName: app.OrganizationName,
		Tier:             mail.TierSectionFor(app.MembershipTier),
		Year:             mail.CurrentYear(),
	})
	if err != nil {
		return err
	}
	return n.deliver(ctx, user, "Membership Application Received", html,
		fmt.Sprintf("We received the membership application for %s.", app.OrganizationName))
}

// SendOnboardingUpdated confirms an owner-side update.
func (n *NotificationService) SendOnboardingUpdated(ctx context.Context, user *domain.User, app *domain.Application) error {
	html, err := mail.Render(mail.KindOnboardingUpdated, mail.OnboardingUpdatedData{
		FirstName:        user.FirstName,
		OrganizationName: app.OrganizationName,
		Year:             mail.CurrentYear(),
	})
	if err != nil {
		return err
	}
	return n.deliver(ctx, user, "Membership Application Updated", html,
		fmt.Sprintf("The membership application for %s was updated.", app.OrganizationName))
}

// SendStatusUpdate delivers the status-specific notification. Payment
// Pending carries full payment instructions and tier fees; Approved
// carries the active-member welcome; everything else is a generic
// status notice with optional remarks.
func (n *NotificationService) SendStatusUpdate(ctx context.Context, user *domain.User, app *domain.Application) error {
	data := mail.StatusData{
		FirstName:    user.FirstName,
		Status:       string(app.Status),
		Remarks:      app.Remarks,
		ContactEmail: n.mailCfg.FromEmail,
		Year:         mail.CurrentYear(),
	}

	var (
		kind    mail.Kind
		subject string
	)
	switch app.Status {
	case domain.StatusPaymentPending:
		kind = mail.KindStatusPaymentPending
		subject = "Membership Application Approved - Payment Required"
		data.Tier = mail.TierSectionFor(app.MembershipTier)
		data.Payment = &mail.PaymentSection{
			BankName:          n.payment.BankName,
			BankAccountName:   n.payment.BankAccountName,
			BankAccountNumber: n.payment.BankAccountNumber,
			BankBranch:        n.payment.BankBranch,
			MomoProvider:      n.payment.MomoProvider,
			MomoNumber:        n.payment.MomoNumber,
			MomoName:          n.payment.MomoName,
		}
	case domain.StatusApproved:
		kind = mail.KindStatusApproved
		subject = "Welcome - Your Membership Is Active"
		data.Tier = mail.TierSectionFor(app.MembershipTier)
	default:
		kind = mail.KindStatusUpdate
		subject = "Membership Application Status Update"
	}

	html, err := mail.Render(kind, data)
	if err != nil {
		return err
	}
	return n.deliver(ctx, user, subject, html,
		fmt.Sprintf("Your membership application status is now: %s.", app.Status))
}

// SendOnboardingDeleted notifies the owner after an admin removed the
// application.
func (n *NotificationService) SendOnboardingDeleted(ctx context.Context, user *domain.User, app *domain.Application) error {
	html, err := mail.Render(mail.KindOnboardingDeleted, mail.OnboardingDeletedData{
		FirstName:        user.FirstName,
		OrganizationName: app.OrganizationName,
		Year:             mail.CurrentYear(),
	})
	if err != nil {
		return err
	}
	return n.deliver(ctx, user, "Membership Application Removed", html,
		fmt.Sprintf("The membership application for %s was removed.", app.OrganizationName))
}

// SendEventAnnouncement notifies a member about a new event.
func (n *NotificationService) SendEventAnnouncement(ctx context.Context, user *domain.User, event *domain.Event) error {
	html, err := mail.Render(mail.KindEventNotification, mail.EventNotificationData{
		FirstName: user.FirstName,
		Title:     event.Title,
		Date:      event.Date.Format("Monday, 2 January 2006"),
		Location:  event.Location,
		Year:      mail.CurrentYear(),
	})
	if err != nil {
		return err
	}
	return n.deliver(ctx, user, "New Event: "+event.Title, html,
		fmt.Sprintf("New event %s on %s at %s.", event.Title, event.Date.Format("2 Jan 2006"), event.Location))
}

func (n *NotificationService) deliver(ctx context.Context, user *domain.User, subject, html, text string) error {
	err := n.sender.Send(ctx, mail.Email{
		To:       user.Email,
		ToName:   user.FullName(),
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	})
	if err != nil {
		n.logger.Error("email delivery failed",
			zap.String("to", user.Email),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return apperrors.NewDeliveryFailed(err)
	}
	return nil
}
