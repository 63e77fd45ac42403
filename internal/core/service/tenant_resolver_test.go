package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lexhaven/matters-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub organization repository
// ---------------------------------------------------------------------------

type stubOrgRepo struct {
	orgs    map[string]*domain.Organization
	lookErr error // if set, FindActiveByID returns this error
	calls   int
}

func newStubOrgRepo() *stubOrgRepo {
	return &stubOrgRepo{orgs: make(map[string]*domain.Organization)}
}

func (r *stubOrgRepo) FindActiveByID(_ context.Context, id string) (*domain.Organization, error) {
	r.calls++
	if r.lookErr != nil {
		return nil, r.lookErr
	}
	org, ok := r.orgs[id]
	if !ok || !org.Active {
		return nil, domain.ErrTenantNotFound
	}
	clone := *org
	return &clone, nil
}

func principal(orgID string, roles ...domain.Role) *domain.Principal {
	return &domain.Principal{
		Subject:        "user-1",
		OrganizationID: orgID,
		Roles:          roles,
		SessionID:      "sess-1",
	}
}

func TestEffectiveOrganizationID_NoOverride(t *testing.T) {
	id, err := EffectiveOrganizationID(principal("org-a", domain.RoleStaff), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "org-a" {
		t.Fatalf("expected org-a, got %s", id)
	}
}

func TestEffectiveOrganizationID_MissingOrg(t *testing.T) {
	_, err := EffectiveOrganizationID(principal("", domain.RoleStaff), "")
	if !errors.Is(err, domain.ErrMissingTenantContext) {
		t.Fatalf("expected ErrMissingTenantContext, got %v", err)
	}
}

func TestEffectiveOrganizationID_NilPrincipal(t *testing.T) {
	_, err := EffectiveOrganizationID(nil, "org-b")
	if !errors.Is(err, domain.ErrMissingTenantContext) {
		t.Fatalf("expected ErrMissingTenantContext, got %v", err)
	}
}

func TestEffectiveOrganizationID_OverrideWithoutSuperAdmin(t *testing.T) {
	_, err := EffectiveOrganizationID(principal("org-a", domain.RoleAdmin), "org-b")
	if !errors.Is(err, domain.ErrUnauthorizedTenantSwitch) {
		t.Fatalf("expected ErrUnauthorizedTenantSwitch, got %v", err)
	}
}

func TestEffectiveOrganizationID_OverrideWithSuperAdmin(t *testing.T) {
	id, err := EffectiveOrganizationID(principal("org-a", domain.RoleSuperAdmin), "org-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "org-b" {
		t.Fatalf("expected override org-b, got %s", id)
	}
}

func TestEffectiveOrganizationID_OverrideMatchingOwnOrg(t *testing.T) {
	// An override naming the principal's own organization needs no privilege.
	id, err := EffectiveOrganizationID(principal("org-a", domain.RoleStaff), "org-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "org-a" {
		t.Fatalf("expected org-a, got %s", id)
	}
}

func TestResolve_Success(t *testing.T) {
	repo := newStubOrgRepo()
	repo.orgs["org-a"] = &domain.Organization{
		ID:       "org-a",
		Name:     "Acme Legal",
		Tier:     domain.TierEnterprise,
		Features: []string{"ai_drafting"},
		Active:   true,
	}
	r := NewTenantResolver(repo, StrictFallback{Log: zerolog.Nop()}, zerolog.Nop())

	tc, err := r.Resolve(context.Background(), principal("org-a", domain.RoleAttorney), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.OrganizationID != "org-a" || tc.OrganizationName != "Acme Legal" {
		t.Fatalf("unexpected tenant context: %+v", tc)
	}
	if tc.Tier != domain.TierEnterprise {
		t.Fatalf("expected enterprise tier, got %s", tc.Tier)
	}
	if !tc.HasFeature("ai_drafting") {
		t.Fatalf("expected ai_drafting feature")
	}
}

func TestResolve_InactiveOrganization(t *testing.T) {
	repo := newStubOrgRepo()
	repo.orgs["org-a"] = &domain.Organization{ID: "org-a", Name: "Dormant", Active: false}
	r := NewTenantResolver(repo, StrictFallback{Log: zerolog.Nop()}, zerolog.Nop())

	_, err := r.Resolve(context.Background(), principal("org-a", domain.RoleStaff), "")
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestResolve_UnknownOrganization(t *testing.T) {
	r := NewTenantResolver(newStubOrgRepo(), StrictFallback{Log: zerolog.Nop()}, zerolog.Nop())

	_, err := r.Resolve(context.Background(), principal("org-missing", domain.RoleStaff), "")
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestResolve_StoreFailureStrict(t *testing.T) {
	repo := newStubOrgRepo()
	repo.lookErr = errors.New("store unavailable")
	r := NewTenantResolver(repo, StrictFallback{Log: zerolog.Nop()}, zerolog.Nop())

	_, err := r.Resolve(context.Background(), principal("org-a", domain.RoleStaff), "")
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("strict fallback must fail closed, got %v", err)
	}
}

func TestResolve_StoreFailureDevFallback(t *testing.T) {
	repo := newStubOrgRepo()
	repo.lookErr = errors.New("store unavailable")
	r := NewTenantResolver(repo, DevFallback{Log: zerolog.Nop()}, zerolog.Nop())

	tc, err := r.Resolve(context.Background(), principal("org-a", domain.RoleStaff), "")
	if err != nil {
		t.Fatalf("dev fallback should not fail: %v", err)
	}
	if tc.OrganizationName != "Development Tenant" {
		t.Fatalf("expected placeholder tenant, got %+v", tc)
	}
	if tc.Tier != domain.TierProfessional {
		t.Fatalf("expected professional tier, got %s", tc.Tier)
	}
	if len(tc.Features) != 0 {
		t.Fatalf("placeholder must have no features, got %v", tc.Features)
	}
}

func TestResolve_OverrideLoadsOverrideOrg(t *testing.T) {
	repo := newStubOrgRepo()
	repo.orgs["org-b"] = &domain.Organization{ID: "org-b", Name: "Other Firm", Tier: domain.TierFree, Active: true}
	r := NewTenantResolver(repo, StrictFallback{Log: zerolog.Nop()}, zerolog.Nop())

	tc, err := r.Resolve(context.Background(), principal("org-a", domain.RoleSuperAdmin), "org-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.OrganizationID != "org-b" {
		t.Fatalf("expected override org, got %s", tc.OrganizationID)
	}
}

func TestResolve_DenialSkipsLookup(t *testing.T) {
	repo := newStubOrgRepo()
	r := NewTenantResolver(repo, StrictFallback{Log: zerolog.Nop()}, zerolog.Nop())

	_, err := r.Resolve(context.Background(), principal("org-a", domain.RoleStaff), "org-b")
	if !errors.Is(err, domain.ErrUnauthorizedTenantSwitch) {
		t.Fatalf("expected ErrUnauthorizedTenantSwitch, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("lookup must not run for an unauthorized switch, got %d calls", repo.calls)
	}
}
