package domain

import "time"

// AuthProvider identifies how the account authenticates.
type AuthProvider string

const (
	ProviderEmail    AuthProvider = "email"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
)

// Role enumerates access levels.
type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// IsAdmin reports whether the role grants admin access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Stage tracks a member's onboarding progress. It is derived from the most
// recent application status and only set through the application workflow.
type Stage string

const (
	StageNewAccount          Stage = "New Account"
	StageDetailsSubmitted    Stage = "Details Submitted"
	StageDetailsApproved     Stage = "Details Approved"
	StageActiveMember        Stage = "Active Member"
	StageApplicationRejected Stage = "Application Rejected"
)

// User is the credential-store aggregate. PasswordHash is nil for
// OAuth-only accounts.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash *string
	Provider     AuthProvider
	Role         Role
	Stage        Stage
	Verified     bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
