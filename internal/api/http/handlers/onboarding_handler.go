package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/membership-service/internal/api/dto"
	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/service"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

var onboardingDocumentFields = []string{
	service.DocRegistrationCertificate,
	service.DocCompanyProfile,
	service.DocLogo,
	service.DocBrochure,
	service.DocSignatureImage,
}

// OnboardingHandler exposes the application workflow endpoints.
type OnboardingHandler struct {
	onboarding *service.OnboardingService
}

// NewOnboardingHandler constructs handler.
func NewOnboardingHandler(onboarding *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

// Submit handles POST /onboarding/submit (multipart).
func (h *OnboardingHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input, uploads, err := parseApplicationForm(c)
	if err != nil {
		return err
	}

	app, err := h.onboarding.Submit(c.UserContext(), principal.ID, input, uploads)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// Update handles PUT /onboarding/update (multipart).
func (h *OnboardingHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input, uploads, err := parseApplicationForm(c)
	if err != nil {
		return err
	}

	app, err := h.onboarding.UpdateOwn(c.UserContext(), principal.ID, input, uploads)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// GetOwn handles GET /onboarding/me.
func (h *OnboardingHandler) GetOwn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	app, err := h.onboarding.GetOwn(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// List handles GET /onboarding/all.
func (h *OnboardingHandler) List(c *fiber.Ctx) error {
	items, err := h.onboarding.AdminList(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.ApplicationResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewApplicationWithOwnerResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /onboarding/:id.
func (h *OnboardingHandler) Get(c *fiber.Ctx) error {
	item, err := h.onboarding.AdminGet(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewApplicationWithOwnerResponse(item)})
}

// UpdateStatus handles PATCH /onboarding/:id/status.
func (h *OnboardingHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status is required", nil)
	}

	app, err := h.onboarding.AdminUpdateStatus(c.UserContext(), c.Params("id"), domain.ApplicationStatus(req.Status), req.Remarks, req.ExpectedVersion)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// Delete handles DELETE /onboarding/admin/:id.
func (h *OnboardingHandler) Delete(c *fiber.Ctx) error {
	if err := h.onboarding.AdminDelete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "application deleted"})
}

func parseApplicationForm(c *fiber.Ctx) (service.ApplicationInput, []service.DocumentUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return service.ApplicationInput{}, nil, apperrors.NewValidationError("multipart form expected", nil)
	}

	var input service.ApplicationInput
	input.OrganizationName = formString(form, "organizationName")
	input.RegistrationNumber = formString(form, "registrationNumber")
	input.OrganizationType = formString(form, "organizationType")
	input.MembershipTier = formString(form, "membershipTier")
	input.SectorFocus = formString(form, "sectorFocus")
	input.PrimaryContactName = formString(form, "primaryContactName")
	input.JobTitle = formString(form, "jobTitle")
	input.ContactEmail = formString(form, "contactEmail")
	input.Phone = formString(form, "phone")
	input.Website = formString(form, "website")
	input.Address = formString(form, "address")
	input.NominatedRepresentative = formString(form, "nominatedRepresentative")
	input.Position = formString(form, "position")
	input.AlternateRepresentative = formString(form, "alternateRepresentative")
	input.AuthorizedSignatory = formString(form, "authorizedSignatory")
	input.RepresentativeName = formString(form, "representativeName")

	if input.YearEstablished, err = formInt(form, "yearEstablished"); err != nil {
		return service.ApplicationInput{}, nil, err
	}
	if input.EmployeesLocal, err = formInt(form, "employeesLocal"); err != nil {
		return service.ApplicationInput{}, nil, err
	}
	if input.EmployeesGlobal, err = formInt(form, "employeesGlobal"); err != nil {
		return service.ApplicationInput{}, nil, err
	}
	if input.DateSigned, err = formTime(form, "dateSigned"); err != nil {
		return service.ApplicationInput{}, nil, err
	}
	if input.AgreesConstitution, err = formBool(form, "agreesConstitution"); err != nil {
		return service.ApplicationInput{}, nil, err
	}
	if input.AgreesCodeOfConduct, err = formBool(form, "agreesCodeOfConduct"); err != nil {
		return service.ApplicationInput{}, nil, err
	}
	if input.CommitsParticipation, err = formBool(form, "commitsParticipation"); err != nil {
		return service.ApplicationInput{}, nil, err
	}
	if input.AllowsLogoDisplay, err = formBool(form, "allowsLogoDisplay"); err != nil {
		return service.ApplicationInput{}, nil, err
	}

	var uploads []service.DocumentUpload
	for _, field := range onboardingDocumentFields {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		content, err := readUpload(headers[0])
		if err != nil {
			return service.ApplicationInput{}, nil, err
		}
		uploads = append(uploads, service.DocumentUpload{
			Field:    field,
			Filename: headers[0].Filename,
			Content:  content,
		})
	}
	return input, uploads, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", map[string]any{"file": header.Filename})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return content, nil
}

func formString(form *multipart.Form, key string) *string {
	values := form.Value[key]
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formInt(form *multipart.Form, key string) (*int, error) {
	raw := formString(form, key)
	if raw == nil || *raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid number", map[string]any{"field": key})
	}
	return &n, nil
}

func formBool(form *multipart.Form, key string) (*bool, error) {
	raw := formString(form, key)
	if raw == nil || *raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(*raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid boolean", map[string]any{"field": key})
	}
	return &b, nil
}

func formTime(form *multipart.Form, key string) (*time.Time, error) {
	raw := formString(form, key)
	if raw == nil || *raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError("invalid date", map[string]any{"field": key})
}
