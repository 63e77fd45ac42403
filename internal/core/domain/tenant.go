package domain

// SubscriptionTier is the commercial plan of an organization.
type SubscriptionTier string

const (
	TierFree         SubscriptionTier = "free"
	TierProfessional SubscriptionTier = "professional"
	TierEnterprise   SubscriptionTier = "enterprise"
)

// Organization is a row from the organization store.
type Organization struct {
	ID       string
	Name     string
	Tier     SubscriptionTier
	Features []string
	Active   bool
}

// TenantContext is the resolved tenant for one request. Created once by the
// tenant resolver, attached to the request, never mutated and never persisted.
type TenantContext struct {
	OrganizationID   string
	OrganizationName string
	Tier             SubscriptionTier
	Features         []string
}

// HasFeature reports whether the tenant has the named feature flag.
func (t *TenantContext) HasFeature(name string) bool {
	for _, f := range t.Features {
		if f == name {
			return true
		}
	}
	return false
}
