package ports

import (
	"context"

	"github.com/lexhaven/matters-api/internal/core/domain"
)

// OrganizationRepository looks up tenant organizations.
type OrganizationRepository interface {
	// FindActiveByID returns the organization for id, excluding soft-deleted
	// and inactive rows. Returns domain.ErrTenantNotFound when no usable row
	// exists; any other error means the store itself failed.
	FindActiveByID(ctx context.Context, id string) (*domain.Organization, error)
}
