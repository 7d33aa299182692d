package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/membership-service/internal/domain"
)

func TestRenderUnknownKind(t *testing.T) {
	_, err := Render(Kind("invoice"), nil)
	require.Error(t, err)
}

func TestTierSectionForKnownTier(t *testing.T) {
	section := TierSectionFor(domain.TierGold)
	require.NotNil(t, section)
	assert.Equal(t, string(domain.TierGold), section.Name)
	assert.NotEmpty(t, section.Fee)
	assert.NotEmpty(t, section.Benefits)
}

func TestTierSectionForUnknownTierIsNil(t *testing.T) {
	assert.Nil(t, TierSectionFor(domain.MembershipTier("Diamond Member")))
}

func TestOnboardingReceivedOmitsFeeForUnknownTier(t *testing.T) {
	html, err := Render(KindOnboardingReceived, OnboardingReceivedData{
		FirstName:        "Ama",
		OrganizationName: "Accra Outsourcing Ltd",
		Tier:             TierSectionFor(domain.MembershipTier("Diamond Member")),
		Year:             CurrentYear(),
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "Annual fee")
	assert.Contains(t, html, "Accra Outsourcing Ltd")
}

func TestOnboardingReceivedIncludesTierSummary(t *testing.T) {
	html, err := Render(KindOnboardingReceived, OnboardingReceivedData{
		FirstName:        "Ama",
		OrganizationName: "Accra Outsourcing Ltd",
		Tier:             TierSectionFor(domain.TierPlatinum),
		Year:             CurrentYear(),
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Platinum Full Member")
	assert.Contains(t, html, "GHS 10,000 / year")
}

func TestPaymentPendingTemplateCarriesInstructions(t *testing.T) {
	html, err := Render(KindStatusPaymentPending, StatusData{
		FirstName: "Ama",
		Status:    "Payment Pending",
		Tier:      TierSectionFor(domain.TierGold),
		Payment: &PaymentSection{
			BankName:          "Test Bank",
			BankAccountName:   "Membership Association",
			BankAccountNumber: "0011223344",
			BankBranch:        "Main Branch",
			MomoProvider:      "MTN",
			MomoNumber:        "0240000000",
			MomoName:          "Membership Association",
		},
		ContactEmail: "support@test.local",
		Year:         CurrentYear(),
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Test Bank")
	assert.Contains(t, html, "0011223344")
	assert.Contains(t, html, "GHS 7,500 / year")
}

func TestStatusUpdateTemplateShowsRemarks(t *testing.T) {
	html, err := Render(KindStatusUpdate, StatusData{
		FirstName: "Ama",
		Status:    "Rejected",
		Remarks:   "incomplete documents",
		Year:      CurrentYear(),
	})
	require.NoError(t, err)
	assert.Contains(t, html, "incomplete documents")
	assert.NotContains(t, html, "Annual fee")
}

func TestEveryKindHasTemplate(t *testing.T) {
	kinds := []Kind{
		KindWelcome,
		KindResetPassword,
		KindOnboardingReceived,
		KindOnboardingUpdated,
		KindStatusPaymentPending,
		KindStatusApproved,
		KindStatusUpdate,
		KindOnboardingDeleted,
		KindEventNotification,
	}
	for _, kind := range kinds {
		_, ok := catalogue[kind]
		assert.True(t, ok, "missing template for %s", kind)
	}
}
