package domain

import "time"

// ApplicationStatus enumerates admin-set lifecycle states for an
// onboarding application.
type ApplicationStatus string

const (
	StatusPending        ApplicationStatus = "Pending"
	StatusPaymentPending ApplicationStatus = "Payment Pending"
	StatusApproved       ApplicationStatus = "Approved"
	StatusRejected       ApplicationStatus = "Rejected"
)

// ValidStatus reports membership in the closed status set.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusPending, StatusPaymentPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// StageForStatus maps an application status to the owner stage it implies.
// Pending implies no stage change and returns ok=false.
func StageForStatus(s ApplicationStatus) (Stage, bool) {
	switch s {
	case StatusPaymentPending:
		return StageDetailsApproved, true
	case StatusApproved:
		return StageActiveMember, true
	case StatusRejected:
		return StageApplicationRejected, true
	}
	return "", false
}

// OrganizationType categorizes the applying organization.
type OrganizationType string

const (
	OrgTypeBPO              OrganizationType = "BPO"
	OrgTypeITO              OrganizationType = "ITO"
	OrgTypeSharedServices   OrganizationType = "Shared Services"
	OrgTypeTrainingProvider OrganizationType = "Training Provider"
	OrgTypeTechVendor       OrganizationType = "Technology Vendor"
	OrgTypeOther            OrganizationType = "Other"
)

// ValidOrganizationType reports membership in the closed type set.
func ValidOrganizationType(t OrganizationType) bool {
	switch t {
	case OrgTypeBPO, OrgTypeITO, OrgTypeSharedServices, OrgTypeTrainingProvider, OrgTypeTechVendor, OrgTypeOther:
		return true
	}
	return false
}

// Documents holds the Cloudinary URLs of uploaded attachments. Empty
// string means not provided.
type Documents struct {
	RegistrationCertificate string
	CompanyProfile          string
	Logo                    string
	Brochure                string
	SignatureImage          string
}

// Application is the onboarding aggregate, one per user.
type Application struct {
	ID     string
	UserID string

	OrganizationName   string
	YearEstablished    int
	RegistrationNumber string
	OrganizationType   OrganizationType
	MembershipTier     MembershipTier
	SectorFocus        string
	EmployeesLocal     int
	EmployeesGlobal    int

	PrimaryContactName string
	JobTitle           string
	ContactEmail       string
	Phone              string
	Website            string
	Address            string

	NominatedRepresentative string
	Position                string
	AlternateRepresentative string
	AuthorizedSignatory     string
	RepresentativeName      string
	DateSigned              *time.Time

	AgreesConstitution   bool
	AgreesCodeOfConduct  bool
	CommitsParticipation bool
	AllowsLogoDisplay    bool

	Documents Documents

	Status  ApplicationStatus
	Remarks string

	// Version guards concurrent admin status updates.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplicationWithOwner joins an application with owner identity for
// admin listings and notifications.
type ApplicationWithOwner struct {
	Application
	OwnerFirstName string
	OwnerLastName  string
	OwnerEmail     string
}
