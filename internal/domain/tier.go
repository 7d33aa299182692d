package domain

// MembershipTier is the membership category selected by an applicant.
type MembershipTier string

const (
	TierPlatinum  MembershipTier = "Platinum Full Member"
	TierGold      MembershipTier = "Gold Full Member"
	TierBronze    MembershipTier = "Bronze Full Member"
	TierAssociate MembershipTier = "Associate Member"
	TierAffiliate MembershipTier = "Affiliate Member"
)

// ValidTier reports membership in the closed tier set.
func ValidTier(t MembershipTier) bool {
	_, ok := tierDetails[t]
	return ok
}

// TierDetail carries the fee and benefit text rendered into
// tier-dependent notifications.
type TierDetail struct {
	Fee         string
	Description string
	Benefits    []string
}

var tierDetails = map[MembershipTier]TierDetail{
	TierPlatinum: {
		Fee:         "GHS 10,000 / year",
		Description: "Top-tier membership for large established outsourcing firms.",
		Benefits: []string{
			"Board nomination eligibility",
			"Priority speaking slots at all association events",
			"Logo placement on the association home page",
			"Unlimited staff passes to workshops and seminars",
		},
	},
	TierGold: {
		Fee:         "GHS 7,500 / year",
		Description: "Full membership for mid-sized firms with established operations.",
		Benefits: []string{
			"Full voting rights at the annual general meeting",
			"Discounted exhibition space at the annual conference",
			"Five staff passes to workshops and seminars",
		},
	},
	TierBronze: {
		Fee:         "GHS 5,000 / year",
		Description: "Full membership for smaller firms and new market entrants.",
		Benefits: []string{
			"Full voting rights at the annual general meeting",
			"Two staff passes to workshops and seminars",
		},
	},
	TierAssociate: {
		Fee:         "GHS 2,500 / year",
		Description: "Non-voting membership for supporting organizations.",
		Benefits: []string{
			"Member directory listing",
			"Access to member-only briefings",
		},
	},
	TierAffiliate: {
		Fee:         "GHS 1,000 / year",
		Description: "Entry membership for individuals and training institutions.",
		Benefits: []string{
			"Newsletter and event invitations",
		},
	},
}

// LookupTier returns tier details. Unknown tiers return ok=false so
// callers fail closed and omit tier content rather than erroring.
func LookupTier(t MembershipTier) (TierDetail, bool) {
	detail, ok := tierDetails[t]
	return detail, ok
}
