package ports

import (
	"context"
	"time"
)

// MatterSummary is the listing projection of a legal matter. Full matter CRUD
// lives outside this subsystem; the listing exists to exercise the
// tenant-scoped connection end to end.
type MatterSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MatterRepository reads matters over the request's tenant-scoped connection.
// Row visibility is enforced by the store's row-level policy keyed on the
// session isolation key, not by explicit organization filters here.
type MatterRepository interface {
	// List returns one page of the tenant's matters.
	List(ctx context.Context, limit, offset int) ([]MatterSummary, error)
	// FindByID returns one matter, or domain.ErrMatterNotFound. A foreign
	// tenant's id is indistinguishable from a nonexistent one.
	FindByID(ctx context.Context, id string) (*MatterSummary, error)
	// ListAll returns every visible matter without a page cap, for exports.
	ListAll(ctx context.Context) ([]MatterSummary, error)
}
