package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/domain"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

type onboardingFixture struct {
	users    *fakeUserRepo
	apps     *fakeApplicationRepo
	sender   *fakeSender
	uploader *fakeUploader
	auth     *AuthService
	svc      *OnboardingService
}

func newOnboardingFixture(t *testing.T) *onboardingFixture {
	t.Helper()
	users := newFakeUserRepo()
	apps := newFakeApplicationRepo(users)
	sender := &fakeSender{}
	uploader := &fakeUploader{}
	notifications := testNotificationService(sender)

	return &onboardingFixture{
		users:    users,
		apps:     apps,
		sender:   sender,
		uploader: uploader,
		auth: NewAuthService(testAuthConfig(), AuthDependencies{
			UserRepo:      users,
			ResetRepo:     newFakeResetRepo(),
			Notifications: notifications,
			Logger:        zap.NewNop(),
		}),
		svc: NewOnboardingService(OnboardingDependencies{
			ApplicationRepo: apps,
			UserRepo:        users,
			Uploader:        uploader,
			Notifications:   notifications,
			Logger:          zap.NewNop(),
			UploadFolder:    "onboarding_uploads",
		}),
	}
}

func (f *onboardingFixture) registerMember(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), "Ama", "Mensah", email, "secret1")
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string { return &s }

func baseInput() ApplicationInput {
	return ApplicationInput{
		OrganizationName:   strPtr("Accra Outsourcing Ltd"),
		PrimaryContactName: strPtr("Ama Mensah"),
		ContactEmail:       strPtr("contact@accraoutsourcing.com"),
		MembershipTier:     strPtr(string(domain.TierGold)),
	}
}

func TestSubmitAdvancesStageToDetailsSubmitted(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")

	app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.Equal(t, 1, app.Version)

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageDetailsSubmitted, stored.Stage)
}

func TestSubmitRequiresOrganizationName(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")

	input := baseInput()
	input.OrganizationName = strPtr("  ")
	_, err := f.svc.Submit(context.Background(), user.ID, input, nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestSubmitRejectsUnknownTier(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")

	input := baseInput()
	input.MembershipTier = strPtr("Diamond Member")
	_, err := f.svc.Submit(context.Background(), user.ID, input, nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestSubmitTwiceConflicts(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")

	_, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestSubmitStoresUploadedDocuments(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")

	uploads := []DocumentUpload{
		{Field: DocRegistrationCertificate, Filename: "cert.pdf", Content: []byte("pdf")},
		{Field: DocSignatureImage, Filename: "sig.png", Content: []byte("png")},
	}
	app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), uploads)
	require.NoError(t, err)
	assert.Contains(t, app.Documents.RegistrationCertificate, "cert.pdf")
	assert.Contains(t, app.Documents.SignatureImage, "sig.png")
	assert.Empty(t, app.Documents.Logo)
}

func TestSubmitRejectsUnknownDocumentField(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")

	uploads := []DocumentUpload{{Field: "passport", Filename: "p.png", Content: []byte("x")}}
	_, err := f.svc.Submit(context.Background(), user.ID, baseInput(), uploads)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestUpdateOwnPreservesOmittedFields(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")

	_, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)

	updated, err := f.svc.UpdateOwn(context.Background(), user.ID, ApplicationInput{
		SectorFocus: strPtr("Customer support"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Accra Outsourcing Ltd", updated.OrganizationName)
	assert.Equal(t, "Customer support", updated.SectorFocus)
}

func TestUpdateOwnWithoutApplication(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")

	_, err := f.svc.UpdateOwn(context.Background(), user.ID, baseInput(), nil)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestAdminUpdateStatusTransitions(t *testing.T) {
	cases := []struct {
		status    domain.ApplicationStatus
		wantStage domain.Stage
	}{
		{domain.StatusPaymentPending, domain.StageDetailsApproved},
		{domain.StatusApproved, domain.StageActiveMember},
		{domain.StatusRejected, domain.StageApplicationRejected},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			f := newOnboardingFixture(t)
			user := f.registerMember(t, "ama@example.com")
			app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
			require.NoError(t, err)

			updated, err := f.svc.AdminUpdateStatus(context.Background(), app.ID, tc.status, "reviewed", 0)
			require.NoError(t, err)
			assert.Equal(t, tc.status, updated.Status)
			assert.Equal(t, 2, updated.Version)

			stored, err := f.users.GetByID(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStage, stored.Stage)
		})
	}
}

func TestAdminUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")
	app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)

	_, err = f.svc.AdminUpdateStatus(context.Background(), app.ID, "Archived", "", 0)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestAdminUpdateStatusVersionMismatch(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")
	app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)

	_, err = f.svc.AdminUpdateStatus(context.Background(), app.ID, domain.StatusApproved, "", 0)
	require.NoError(t, err)

	// A second decision against the stale version must not apply.
	_, err = f.svc.AdminUpdateStatus(context.Background(), app.ID, domain.StatusRejected, "", 1)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestPaymentPendingEmailCarriesFeeAndInstructions(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")
	app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)

	_, err = f.svc.AdminUpdateStatus(context.Background(), app.ID, domain.StatusPaymentPending, "", 0)
	require.NoError(t, err)

	emails := f.sender.emails()
	require.NotEmpty(t, emails)
	body := emails[len(emails)-1].HTMLBody
	assert.Contains(t, body, "GHS 7,500 / year")
	assert.Contains(t, body, "Test Bank")
	assert.Contains(t, body, "0240000000")
}

func TestRejectionEmailOmitsPaymentInstructions(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")
	app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)

	_, err = f.svc.AdminUpdateStatus(context.Background(), app.ID, domain.StatusRejected, "incomplete documents", 0)
	require.NoError(t, err)

	emails := f.sender.emails()
	require.NotEmpty(t, emails)
	body := emails[len(emails)-1].HTMLBody
	assert.NotContains(t, body, "Test Bank")
	assert.NotContains(t, body, "GHS")
	assert.Contains(t, body, "incomplete documents")
}

func TestStatusAppliesEvenWhenNotificationFails(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")
	app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)

	f.sender.failErr = assert.AnError
	updated, err := f.svc.AdminUpdateStatus(context.Background(), app.ID, domain.StatusApproved, "", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageActiveMember, stored.Stage)
}

func TestAdminDeleteResetsStageAndNotifies(t *testing.T) {
	f := newOnboardingFixture(t)
	user := f.registerMember(t, "ama@example.com")
	app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.AdminDelete(context.Background(), app.ID))

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageNewAccount, stored.Stage)

	_, err = f.svc.GetOwn(context.Background(), user.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	var sawDeletion bool
	for _, email := range f.sender.emails() {
		if strings.Contains(strings.ToLower(email.Subject), "removed") || strings.Contains(strings.ToLower(email.Subject), "deleted") {
			sawDeletion = true
		}
	}
	assert.True(t, sawDeletion)
}

func TestMembershipLifecycleEndToEnd(t *testing.T) {
	f := newOnboardingFixture(t)

	user, err := f.auth.Register(context.Background(), "Ama", "Mensah", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageNewAccount, user.Stage)

	app, err := f.svc.Submit(context.Background(), user.ID, baseInput(), nil)
	require.NoError(t, err)

	updated, err := f.svc.AdminUpdateStatus(context.Background(), app.ID, domain.StatusApproved, "", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageActiveMember, stored.Stage)

	own, err := f.svc.GetOwn(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, own.Status)
}
