package ports

import (
	"context"

	"github.com/lexhaven/matters-api/internal/core/domain"
)

// TenantResolver derives the effective tenant for a request.
type TenantResolver interface {
	// Resolve determines the effective organization from the principal and
	// the optional override header value, loads it, and returns the tenant
	// context. All failures map to the denial taxonomy in domain.
	Resolve(ctx context.Context, p *domain.Principal, override string) (*domain.TenantContext, error)
}

// ReleaseFunc tears down a tenant-scoped session. It must always be called,
// and must clear the isolation key before the underlying connection can be
// reused by another request.
type ReleaseFunc func()

// TenantSession establishes the per-request data-store isolation key.
type TenantSession interface {
	// Begin pins a connection for the request, sets the isolation key on it
	// with a parameterized call, and returns a context carrying the scoped
	// connection for downstream repositories. The key is bound to the
	// connection, never to the pool.
	Begin(ctx context.Context, organizationID string) (context.Context, ReleaseFunc, error)
}
