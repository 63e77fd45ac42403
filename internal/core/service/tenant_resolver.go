package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/lexhaven/matters-api/internal/core/domain"
	"github.com/lexhaven/matters-api/internal/core/ports"
)

// EffectiveOrganizationID derives the organization a request may act on from
// the principal and the optional override header value. The override is only
// honoured for super_admin callers; anything ambiguous fails closed.
//
// The isolation middleware calls this independently of the resolver so a
// caller that skips tenant resolution still cannot choose its own scope.
func EffectiveOrganizationID(p *domain.Principal, override string) (string, error) {
	if p == nil {
		return "", domain.ErrMissingTenantContext
	}
	if override == "" || override == p.OrganizationID {
		if p.OrganizationID == "" {
			return "", domain.ErrMissingTenantContext
		}
		return p.OrganizationID, nil
	}
	if !p.IsSuperAdmin() {
		return "", domain.ErrUnauthorizedTenantSwitch
	}
	return override, nil
}

// LookupFallback decides what happens when the organization store itself
// fails (unreachable, malformed response). Selected once at process start;
// production wiring must use StrictFallback.
type LookupFallback interface {
	OnLookupFailure(ctx context.Context, organizationID string, cause error) (*domain.TenantContext, error)
}

// StrictFallback fails closed: a store failure denies the request.
type StrictFallback struct {
	Log zerolog.Logger
}

func (f StrictFallback) OnLookupFailure(_ context.Context, organizationID string, cause error) (*domain.TenantContext, error) {
	f.Log.Error().Err(cause).Str("organization_id", organizationID).
		Msg("organization lookup failed, denying request")
	return nil, domain.ErrTenantNotFound
}

// DevFallback substitutes a fixed placeholder tenant so local development
// works without a seeded organization store. Never wire this in production.
type DevFallback struct {
	Log zerolog.Logger
}

func (f DevFallback) OnLookupFailure(_ context.Context, organizationID string, cause error) (*domain.TenantContext, error) {
	f.Log.Warn().Err(cause).Str("organization_id", organizationID).
		Msg("organization lookup failed, substituting development placeholder tenant")
	return &domain.TenantContext{
		OrganizationID:   organizationID,
		OrganizationName: "Development Tenant",
		Tier:             domain.TierProfessional,
	}, nil
}

// TenantResolver implements ports.TenantResolver against the organization
// store, with a process-configured strategy for store failures.
type TenantResolver struct {
	orgs     ports.OrganizationRepository
	fallback LookupFallback
	log      zerolog.Logger
}

func NewTenantResolver(orgs ports.OrganizationRepository, fallback LookupFallback, log zerolog.Logger) *TenantResolver {
	return &TenantResolver{orgs: orgs, fallback: fallback, log: log}
}

// Resolve produces the TenantContext for the request or a denial error.
func (r *TenantResolver) Resolve(ctx context.Context, p *domain.Principal, override string) (*domain.TenantContext, error) {
	effective, err := EffectiveOrganizationID(p, override)
	if err != nil {
		return nil, err
	}

	org, err := r.orgs.FindActiveByID(ctx, effective)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return r.fallback.OnLookupFailure(ctx, effective, err)
	}

	return &domain.TenantContext{
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		Tier:             org.Tier,
		Features:         org.Features,
	}, nil
}
