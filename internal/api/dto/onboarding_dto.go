package dto

import (
	"time"

	"github.com/spec-kit/membership-service/internal/domain"
)

// UpdateStatusRequest payload for the admin status transition.
// ExpectedVersion 0 means "current version".
type UpdateStatusRequest struct {
	Status          string `json:"status"`
	Remarks         string `json:"remarks"`
	ExpectedVersion int    `json:"expectedVersion"`
}

// DocumentsResponse exposes uploaded attachment URLs.
type DocumentsResponse struct {
	RegistrationCertificate string `json:"registrationCertificate,omitempty"`
	CompanyProfile          string `json:"companyProfile,omitempty"`
	Logo                    string `json:"logo,omitempty"`
	Brochure                string `json:"brochure,omitempty"`
	SignatureImage          string `json:"signatureImage,omitempty"`
}

// ApplicationResponse is the API view of an onboarding application.
type ApplicationResponse struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	OrganizationName   string `json:"organizationName"`
	YearEstablished    int    `json:"yearEstablished,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	OrganizationType   string `json:"organizationType,omitempty"`
	MembershipTier     string `json:"membershipTier,omitempty"`
	SectorFocus        string `json:"sectorFocus,omitempty"`
	EmployeesLocal     int    `json:"employeesLocal,omitempty"`
	EmployeesGlobal    int    `json:"employeesGlobal,omitempty"`

	PrimaryContactName string `json:"primaryContactName"`
	JobTitle           string `json:"jobTitle,omitempty"`
	ContactEmail       string `json:"contactEmail"`
	Phone              string `json:"phone,omitempty"`
	Website            string `json:"website,omitempty"`
	Address            string `json:"address,omitempty"`

	NominatedRepresentative string     `json:"nominatedRepresentative,omitempty"`
	Position                string     `json:"position,omitempty"`
	AlternateRepresentative string     `json:"alternateRepresentative,omitempty"`
	AuthorizedSignatory     string     `json:"authorizedSignatory,omitempty"`
	RepresentativeName      string     `json:"representativeName,omitempty"`
	DateSigned              *time.Time `json:"dateSigned,omitempty"`

	AgreesConstitution   bool `json:"agreesConstitution"`
	AgreesCodeOfConduct  bool `json:"agreesCodeOfConduct"`
	CommitsParticipation bool `json:"commitsParticipation"`
	AllowsLogoDisplay    bool `json:"allowsLogoDisplay"`

	Documents DocumentsResponse `json:"documents"`

	Status    string    `json:"status"`
	Remarks   string    `json:"remarks,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *ApplicationOwner `json:"owner,omitempty"`
}

// ApplicationOwner identifies the applying user on admin views.
type ApplicationOwner struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// NewApplicationResponse maps a domain application to its API shape.
func NewApplicationResponse(app *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                      app.ID,
		UserID:                  app.UserID,
		OrganizationName:        app.OrganizationName,
		YearEstablished:         app.YearEstablished,
		RegistrationNumber:      app.RegistrationNumber,
		OrganizationType:        string(app.OrganizationType),
		MembershipTier:          string(app.MembershipTier),
		SectorFocus:             app.SectorFocus,
		EmployeesLocal:          app.EmployeesLocal,
		EmployeesGlobal:         app.EmployeesGlobal,
		PrimaryContactName:      app.PrimaryContactName,
		JobTitle:                app.JobTitle,
		ContactEmail:            app.ContactEmail,
		Phone:                   app.Phone,
		Website:                 app.Website,
		Address:                 app.Address,
		NominatedRepresentative: app.NominatedRepresentative,
		Position:                app.Position,
		AlternateRepresentative: app.AlternateRepresentative,
		AuthorizedSignatory:     app.AuthorizedSignatory,
		RepresentativeName:      app.RepresentativeName,
		DateSigned:              app.DateSigned,
		AgreesConstitution:      app.AgreesConstitution,
		AgreesCodeOfConduct:     app.AgreesCodeOfConduct,
		CommitsParticipation:    app.CommitsParticipation,
		AllowsLogoDisplay:       app.AllowsLogoDisplay,
		Documents: DocumentsResponse{
			RegistrationCertificate: app.Documents.RegistrationCertificate,
			CompanyProfile:          app.Documents.CompanyProfile,
			Logo:                    app.Documents.Logo,
			Brochure:                app.Documents.Brochure,
			SignatureImage:          app.Documents.SignatureImage,
		},
		Status:    string(app.Status),
		Remarks:   app.Remarks,
		Version:   app.Version,
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
	}
}

// NewApplicationWithOwnerResponse maps an admin listing row.
func NewApplicationWithOwnerResponse(item *domain.ApplicationWithOwner) ApplicationResponse {
	resp := NewApplicationResponse(&item.Application)
	resp.Owner = &ApplicationOwner{
		FirstName: item.OwnerFirstName,
		LastName:  item.OwnerLastName,
		Email:     item.OwnerEmail,
	}
	return resp
}
