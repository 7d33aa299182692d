package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/spec-kit/membership-service/internal/domain"
)

// Kind names a notification template. The set is closed: every kind has
// a template parsed at package init, so a missing template is a startup
// failure rather than a runtime fallback.
type Kind string

const (
	KindWelcome              Kind = "welcome"
	KindResetPassword        Kind = "resetPassword"
	KindOnboardingReceived   Kind = "onboardingReceived"
	KindOnboardingUpdated    Kind = "onboardingUpdated"
	KindStatusPaymentPending Kind = "statusPaymentPending"
	KindStatusApproved       Kind = "statusApproved"
	KindStatusUpdate         Kind = "statusUpdate"
	KindOnboardingDeleted    Kind = "onboardingDeleted"
	KindEventNotification    Kind = "eventNotification"
)

var catalogue = func() map[Kind]*template.Template {
	parsed := make(map[Kind]*template.Template, len(templateSources))
	for kind, src := range templateSources {
		parsed[kind] = template.Must(template.New(string(kind)).Parse(src))
	}
	return parsed
}()

// Render executes the template for the given kind.
func Render(kind Kind, data any) (string, error) {
	tmpl, ok := catalogue[kind]
	if !ok {
		return "", fmt.Errorf("unknown template kind %q", kind)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", kind, err)
	}
	return buf.String(), nil
}

// TierSection carries tier text into tier-dependent templates.
type TierSection struct {
	Name        string
	Fee         string
	Description string
	Benefits    []string
}

// TierSectionFor builds the tier section for a template, or nil when the
// tier is unknown so the section is omitted rather than erroring.
func TierSectionFor(tier domain.MembershipTier) *TierSection {
	detail, ok := domain.LookupTier(tier)
	if !ok {
		return nil
	}
	return &TierSection{
		Name:        string(tier),
		Fee:         detail.Fee,
		Description: detail.Description,
		Benefits:    detail.Benefits,
	}
}

// PaymentSection carries payment instructions into the payment-pending template.
type PaymentSection struct {
	BankName          string
	BankAccountName   string
	BankAccountNumber string
	BankBranch        string
	MomoProvider      string
	MomoNumber        string
	MomoName          string
}

// WelcomeData feeds the welcome template.
type WelcomeData struct {
	FirstName string
	LoginURL  string
	Year      int
}

// ResetPasswordData feeds the resetPassword template.
type ResetPasswordData struct {
	FirstName string
	ResetURL  string
	ExpiresIn string
	Year      int
}

// OnboardingReceivedData feeds the onboardingReceived template.
type OnboardingReceivedData struct {
	FirstName        string
	OrganizationName string
	Tier             *TierSection
	Year             int
}

// OnboardingUpdatedData feeds the onboardingUpdated template.
type OnboardingUpdatedData struct {
	FirstName        string
	OrganizationName string
	Year             int
}

// StatusData feeds the three status templates.
type StatusData struct {
	FirstName    string
	Status       string
	Remarks      string
	Tier         *TierSection
	Payment      *PaymentSection
	ContactEmail string
	Year         int
}

// OnboardingDeletedData feeds the onboardingDeleted template.
type OnboardingDeletedData struct {
	FirstName        string
	OrganizationName string
	Year             int
}

// EventNotificationData feeds the eventNotification template.
type EventNotificationData struct {
	FirstName string
	Title     string
	Date      string
	Location  string
	Year      int
}

// CurrentYear is the footer year for templates.
func CurrentYear() int {
	return time.Now().Year()
}

const footer = `
  <hr />
  <p style="font-size: 12px; color: #888;">Membership Team &copy; {{.Year}}</p>
</div>`

const header = `<div style="font-family: Arial, sans-serif; color: #333;">`

const tierBlock = `{{if .Tier}}
  <h3 style="color: #0b58bc;">{{.Tier.Name}}</h3>
  <p>{{.Tier.Description}}</p>
  <p><strong>Annual fee:</strong> {{.Tier.Fee}}</p>
  <ul>{{range .Tier.Benefits}}<li>{{.}}</li>{{end}}</ul>
{{end}}`

var templateSources = map[Kind]string{
	KindWelcome: header + `
  <h2 style="color: #0b58bc;">Welcome, {{.FirstName}}!</h2>
  <p>Your account has been created and is ready to use.</p>
  <a href="{{.LoginURL}}"
     style="display:inline-block;background:#0b58bc;color:#fff;
            padding:10px 20px;border-radius:6px;text-decoration:none;">
    Log In
  </a>
  <p>Once logged in, you can begin your membership application.</p>` + footer,

	KindResetPassword: header + `
  <h2 style="color: #0b58bc;">Reset Your Password</h2>
  <p>Hello {{.FirstName}}, click below to set a new password:</p>
  <a href="{{.ResetURL}}"
     style="display:inline-block;background:#0b58bc;color:#fff;
            padding:10px 20px;border-radius:6px;text-decoration:none;">
    Reset Password
  </a>
  <p>This link expires in {{.ExpiresIn}}.</p>
  <p>If you did not request this, you can safely ignore this email.</p>` + footer,

	KindOnboardingReceived: header + `
  <h2 style="color: #0b58bc;">Application Received</h2>
  <p>Dear {{.FirstName}},</p>
  <p>We have received the membership application for <strong>{{.OrganizationName}}</strong>.
     Our team will review it and get back to you.</p>` + tierBlock + footer,

	KindOnboardingUpdated: header + `
  <h2 style="color: #0b58bc;">Application Updated</h2>
  <p>Dear {{.FirstName}},</p>
  <p>The membership application for <strong>{{.OrganizationName}}</strong> has been
     updated with the details you provided.</p>` + footer,

	KindStatusPaymentPending: header + `
  <h2 style="color: #0b58bc;">Application Approved &mdash; Payment Required</h2>
  <p>Dear {{.FirstName}},</p>
  <p>Your membership application has been reviewed and approved. To activate your
     membership, please complete payment of your membership fee.</p>` + tierBlock + `
  {{if .Payment}}
  <h3>Bank Transfer</h3>
  <p>
    Bank: {{.Payment.BankName}}<br />
    Account name: {{.Payment.BankAccountName}}<br />
    Account number: {{.Payment.BankAccountNumber}}<br />
    Branch: {{.Payment.BankBranch}}
  </p>
  <h3>Mobile Money</h3>
  <p>
    Provider: {{.Payment.MomoProvider}}<br />
    Number: {{.Payment.MomoNumber}}<br />
    Registered name: {{.Payment.MomoName}}
  </p>
  {{end}}
  {{if .Remarks}}<p><em>{{.Remarks}}</em></p>{{end}}` + footer,

	KindStatusApproved: header + `
  <h2 style="color: #0b58bc;">Welcome, Active Member!</h2>
  <p>Dear {{.FirstName}},</p>
  <p>Your membership is now fully active. We are delighted to welcome your
     organization to the association.</p>` + tierBlock + `
  {{if .Remarks}}<p><em>{{.Remarks}}</em></p>{{end}}
  {{if .ContactEmail}}<p>Questions? Reach us at {{.ContactEmail}}.</p>{{end}}` + footer,

	KindStatusUpdate: header + `
  <h2 style="color: #0b58bc;">Application Status Update</h2>
  <p>Dear {{.FirstName}},</p>
  <p>The status of your membership application is now: <strong>{{.Status}}</strong>.</p>
  {{if .Remarks}}<p><em>{{.Remarks}}</em></p>{{end}}` + footer,

	KindOnboardingDeleted: header + `
  <h2 style="color: #0b58bc;">Application Removed</h2>
  <p>Dear {{.FirstName}},</p>
  <p>The membership application for <strong>{{.OrganizationName}}</strong> has been
     removed by an administrator. You may submit a new application at any time.</p>` + footer,

	KindEventNotification: header + `
  <h2 style="color: #0b58bc;">New Event: {{.Title}}</h2>
  <p>Dear {{.FirstName}},</p>
  <p>A new association event has been scheduled.</p>
  <p>
    <strong>{{.Title}}</strong><br />
    Date: {{.Date}}<br />
    Location: {{.Location}}
  </p>` + footer,
}
