package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lexhaven/matters-api/internal/core/domain"
	"github.com/lexhaven/matters-api/internal/core/ports"
)

// MatterRepository reads matter summaries over the request's tenant-scoped
// connection. Queries deliberately carry no organization predicate: the
// row-level security policy on the matters table, keyed on
// `app.current_tenant_id`, is the only thing deciding row visibility.
type MatterRepository struct{}

func NewMatterRepository() *MatterRepository {
	return &MatterRepository{}
}

func (r *MatterRepository) List(ctx context.Context, limit, offset int) ([]ports.MatterSummary, error) {
	conn, err := ConnFrom(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matters: %w", err)
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := conn.Query(ctx,
		`SELECT id, title, status, created_at
		   FROM matters
		  ORDER BY created_at DESC
		  LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list matters: %w", err)
	}
	return collectSummaries(rows)
}

func (r *MatterRepository) FindByID(ctx context.Context, id string) (*ports.MatterSummary, error) {
	conn, err := ConnFrom(ctx)
	if err != nil {
		return nil, fmt.Errorf("find matter: %w", err)
	}

	var m ports.MatterSummary
	err = conn.QueryRow(ctx,
		`SELECT id, title, status, created_at
		   FROM matters
		  WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Title, &m.Status, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMatterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find matter: %w", err)
	}
	return &m, nil
}

// ListAll reads without a LIMIT so exports see every row; the row-level
// policy already bounds the result to one tenant.
func (r *MatterRepository) ListAll(ctx context.Context) ([]ports.MatterSummary, error) {
	conn, err := ConnFrom(ctx)
	if err != nil {
		return nil, fmt.Errorf("export matters: %w", err)
	}

	rows, err := conn.Query(ctx,
		`SELECT id, title, status, created_at
		   FROM matters
		  ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("export matters: %w", err)
	}
	return collectSummaries(rows)
}

func collectSummaries(rows pgx.Rows) ([]ports.MatterSummary, error) {
	defer rows.Close()

	var matters []ports.MatterSummary
	for rows.Next() {
		var m ports.MatterSummary
		if err := rows.Scan(&m.ID, &m.Title, &m.Status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan matter: %w", err)
		}
		matters = append(matters, m)
	}
	return matters, rows.Err()
}
