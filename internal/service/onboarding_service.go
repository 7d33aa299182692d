package service

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/repository"
	"github.com/spec-kit/membership-service/internal/storage"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// Document field names accepted on submit/update uploads.
const (
	DocRegistrationCertificate = "registrationCertificate"
	DocCompanyProfile          = "companyProfile"
	DocLogo                    = "logo"
	DocBrochure                = "brochure"
	DocSignatureImage          = "signatureImage"
)

// ApplicationInput carries submitted form fields. Nil fields are left
// untouched on update, so callers get partial-update semantics.
type ApplicationInput struct {
	OrganizationName   *string
	YearEstablished    *int
	RegistrationNumber *string
	OrganizationType   *string
	MembershipTier     *string
	SectorFocus        *string
	EmployeesLocal     *int
	EmployeesGlobal    *int

	PrimaryContactName *string
	JobTitle           *string
	ContactEmail       *string
	Phone              *string
	Website            *string
	Address            *string

	NominatedRepresentative *string
	Position                *string
	AlternateRepresentative *string
	AuthorizedSignatory     *string
	RepresentativeName      *string
	DateSigned              *time.Time

	AgreesConstitution   *bool
	AgreesCodeOfConduct  *bool
	CommitsParticipation *bool
	AllowsLogoDisplay    *bool
}

// DocumentUpload is one attachment to push to the object store.
type DocumentUpload struct {
	Field    string
	Filename string
	Content  []byte
}

// OnboardingService governs the application workflow: submission,
// owner updates and the admin status transition that also moves the
// owner's lifecycle stage.
type OnboardingService struct {
	apps     repository.ApplicationRepository
	users    repository.UserRepository
	uploader storage.Uploader
	notify   *NotificationService
	logger   *zap.Logger
	folder   string
}

// OnboardingDependencies bundles requirements for the service.
type OnboardingDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	UserRepo        repository.UserRepository
	Uploader        storage.Uploader
	Notifications   *NotificationService
	Logger          *zap.Logger
	UploadFolder    string
}

// NewOnboardingService constructs the service.
func NewOnboardingService(deps OnboardingDependencies) *OnboardingService {
	return &OnboardingService{
		apps:     deps.ApplicationRepo,
		users:    deps.UserRepo,
		uploader: deps.Uploader,
		notify:   deps.Notifications,
		logger:   deps.Logger,
		folder:   deps.UploadFolder,
	}
}

// Submit validates and persists a first application for the user. The
// insert and the owner's stage advance to Details Submitted are one
// atomic write; a duplicate submission fails with a conflict. The
// confirmation email includes the selected tier summary.
func (s *OnboardingService) Submit(ctx context.Context, userID string, input ApplicationInput, uploads []DocumentUpload) (*domain.Application, error) {
	app := &domain.Application{
		UserID: userID,
		Status: domain.StatusPending,
	}
	if err := applyInput(app, input); err != nil {
		return nil, err
	}
	if app.OrganizationName == "" {
		return nil, apperrors.NewValidationError("organization name is required", nil)
	}
	if app.PrimaryContactName == "" {
		return nil, apperrors.NewValidationError("primary contact name is required", nil)
	}
	if app.ContactEmail == "" {
		return nil, apperrors.NewValidationError("contact email is required", nil)
	}

	// Soft check before uploading attachments; the unique constraint on
	// user_id is the hard guarantee against a concurrent double submit.
	if _, err := s.apps.GetByUserID(ctx, userID); err == nil {
		return nil, apperrors.NewConflict("an application already exists for this user", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	if err := s.uploadDocuments(ctx, &app.Documents, uploads); err != nil {
		return nil, err
	}

	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.notify.SendOnboardingReceived(ctx, owner, app); err != nil {
		s.logger.Warn("submission notification failed", zap.String("application_id", app.ID), zap.Error(err))
	}
	return app, nil
}

// UpdateOwn merges provided fields and new documents over the caller's
// stored application. Fields omitted by the caller are preserved.
func (s *OnboardingService) UpdateOwn(ctx context.Context, userID string, input ApplicationInput, uploads []DocumentUpload) (*domain.Application, error) {
	app, err := s.apps.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("application", nil)
		}
		return nil, err
	}

	if err := applyInput(app, input); err != nil {
		return nil, err
	}
	if err := s.uploadDocuments(ctx, &app.Documents, uploads); err != nil {
		return nil, err
	}

	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.notify.SendOnboardingUpdated(ctx, owner, app); err != nil {
		s.logger.Warn("update notification failed", zap.String("application_id", app.ID), zap.Error(err))
	}
	return app, nil
}

// GetOwn returns the caller's application.
func (s *OnboardingService) GetOwn(ctx context.Context, userID string) (*domain.Application, error) {
	app, err := s.apps.GetByUserID(ctx, userID)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("application", nil)
	}
	return app, err
}

// AdminUpdateStatus applies an admin decision. Status, remarks and the
// derived owner stage are written in one transaction guarded by an
// optimistic version check; the status-specific notification goes out
// only after the commit, and a delivery failure is logged without
// rolling back the decision.
func (s *OnboardingService) AdminUpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, remarks string, expectedVersion int) (*domain.Application, error) {
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	current, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("application", nil)
		}
		return nil, err
	}
	if expectedVersion == 0 {
		expectedVersion = current.Version
	}

	stage, _ := domain.StageForStatus(status)
	updated, err := s.apps.UpdateStatus(ctx, id, status, remarks, stage, expectedVersion)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("application", nil)
		}
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, updated.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.notify.SendStatusUpdate(ctx, owner, updated); err != nil {
		s.logger.Warn("status notification failed",
			zap.String("application_id", updated.ID),
			zap.String("status", string(updated.Status)),
			zap.Error(err),
		)
	}
	return updated, nil
}

// AdminList returns all applications with owner identity.
func (s *OnboardingService) AdminList(ctx context.Context) ([]domain.ApplicationWithOwner, error) {
	return s.apps.ListWithOwners(ctx)
}

// AdminGet returns one application with owner identity.
func (s *OnboardingService) AdminGet(ctx context.Context, id string) (*domain.ApplicationWithOwner, error) {
	item, err := s.apps.GetWithOwner(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("application", nil)
	}
	return item, err
}

// AdminDelete removes an application, resets the owner's stage and
// notifies the owner.
func (s *OnboardingService) AdminDelete(ctx context.Context, id string) error {
	item, err := s.apps.GetWithOwner(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("application", nil)
		}
		return err
	}

	if err := s.apps.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("application", nil)
		}
		return err
	}

	owner, err := s.users.GetByID(ctx, item.UserID)
	if err != nil {
		return err
	}
	if err := s.notify.SendOnboardingDeleted(ctx, owner, &item.Application); err != nil {
		s.logger.Warn("deletion notification failed", zap.String("application_id", id), zap.Error(err))
	}
	return nil
}

func (s *OnboardingService) uploadDocuments(ctx context.Context, docs *domain.Documents, uploads []DocumentUpload) error {
	for _, upload := range uploads {
		target, ok := documentTarget(docs, upload.Field)
		if !ok {
			return apperrors.NewValidationError("unknown document field", map[string]any{"field": upload.Field})
		}
		url, err := s.uploader.Upload(ctx, bytes.NewReader(upload.Content), upload.Filename, s.folder)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		*target = url
	}
	return nil
}

func documentTarget(docs *domain.Documents, field string) (*string, bool) {
	switch field {
	case DocRegistrationCertificate:
		return &docs.RegistrationCertificate, true
	case DocCompanyProfile:
		return &docs.CompanyProfile, true
	case DocLogo:
		return &docs.Logo, true
	case DocBrochure:
		return &docs.Brochure, true
	case DocSignatureImage:
		return &docs.SignatureImage, true
	}
	return nil, false
}

func applyInput(app *domain.Application, input ApplicationInput) error {
	if input.OrganizationName != nil {
		app.OrganizationName = strings.TrimSpace(*input.OrganizationName)
	}
	if input.YearEstablished != nil {
		app.YearEstablished = *input.YearEstablished
	}
	if input.RegistrationNumber != nil {
		app.RegistrationNumber = strings.TrimSpace(*input.RegistrationNumber)
	}
	if input.OrganizationType != nil {
		orgType := domain.OrganizationType(*input.OrganizationType)
		if !domain.ValidOrganizationType(orgType) {
			return apperrors.NewValidationError("invalid organization type", map[string]any{"organizationType": orgType})
		}
		app.OrganizationType = orgType
	}
	if input.MembershipTier != nil {
		tier := domain.MembershipTier(*input.MembershipTier)
		if !domain.ValidTier(tier) {
			return apperrors.NewValidationError("invalid membership tier", map[string]any{"membershipTier": tier})
		}
		app.MembershipTier = tier
	}
	if input.SectorFocus != nil {
		app.SectorFocus = strings.TrimSpace(*input.SectorFocus)
	}
	if input.EmployeesLocal != nil {
		app.EmployeesLocal = *input.EmployeesLocal
	}
	if input.EmployeesGlobal != nil {
		app.EmployeesGlobal = *input.EmployeesGlobal
	}
	if input.PrimaryContactName != nil {
		app.PrimaryContactName = strings.TrimSpace(*input.PrimaryContactName)
	}
	if input.JobTitle != nil {
		app.JobTitle = strings.TrimSpace(*input.JobTitle)
	}
	if input.ContactEmail != nil {
		app.ContactEmail = strings.ToLower(strings.TrimSpace(*input.ContactEmail))
	}
	if input.Phone != nil {
		app.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Website != nil {
		app.Website = strings.TrimSpace(*input.Website)
	}
	if input.Address != nil {
		app.Address = strings.TrimSpace(*input.Address)
	}
	if input.NominatedRepresentative != nil {
		app.NominatedRepresentative = strings.TrimSpace(*input.NominatedRepresentative)
	}
	if input.Position != nil {
		app.Position = strings.TrimSpace(*input.Position)
	}
	if input.AlternateRepresentative != nil {
		app.AlternateRepresentative = strings.TrimSpace(*input.AlternateRepresentative)
	}
	if input.AuthorizedSignatory != nil {
		app.AuthorizedSignatory = strings.TrimSpace(*input.AuthorizedSignatory)
	}
	if input.RepresentativeName != nil {
		app.RepresentativeName = strings.TrimSpace(*input.RepresentativeName)
	}
	if input.DateSigned != nil {
		app.DateSigned = input.DateSigned
	}
	if input.AgreesConstitution != nil {
		app.AgreesConstitution = *input.AgreesConstitution
	}
	if input.AgreesCodeOfConduct != nil {
		app.AgreesCodeOfConduct = *input.AgreesCodeOfConduct
	}
	if input.CommitsParticipation != nil {
		app.CommitsParticipation = *input.CommitsParticipation
	}
	if input.AllowsLogoDisplay != nil {
		app.AllowsLogoDisplay = *input.AllowsLogoDisplay
	}
	return nil
}
