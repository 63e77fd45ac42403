package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/lexhaven/matters-api/internal/core/ports"
)

type connContextKey struct{}

// TenantSession implements ports.TenantSession on a pgx pool. Each request
// gets a dedicated connection with `app.current_tenant_id` set through a
// parameterized set_config call; row-level security policies key on that
// setting, so every query on the connection is scoped to one organization.
//
// The key is bound to the pinned connection and cleared with RESET before the
// connection goes back to the pool. A connection therefore never carries one
// tenant's scope into another tenant's request.
type TenantSession struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewTenantSession(pool *pgxpool.Pool, log zerolog.Logger) *TenantSession {
	return &TenantSession{pool: pool, log: log}
}

// Begin pins a connection, applies the isolation key and returns a context
// carrying the scoped connection. If set_config fails the connection is
// released immediately and the request must not proceed.
func (s *TenantSession) Begin(ctx context.Context, organizationID string) (context.Context, ports.ReleaseFunc, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT set_config('app.current_tenant_id', $1, false)", organizationID); err != nil {
		conn.Release()
		return nil, nil, fmt.Errorf("set isolation key: %w", err)
	}

	release := func() {
		// Clearing the key is best effort; a failed RESET destroys the
		// connection rather than returning it scoped.
		if _, err := conn.Exec(context.Background(), "RESET app.current_tenant_id"); err != nil {
			s.log.Error().Err(err).Msg("failed to reset tenant isolation key, discarding connection")
			conn.Conn().Close(context.Background())
		}
		conn.Release()
	}

	return context.WithValue(ctx, connContextKey{}, conn), release, nil
}

// ConnFrom extracts the tenant-scoped connection established by Begin.
func ConnFrom(ctx context.Context) (*pgxpool.Conn, error) {
	conn, ok := ctx.Value(connContextKey{}).(*pgxpool.Conn)
	if !ok {
		return nil, fmt.Errorf("no tenant-scoped connection in context")
	}
	return conn, nil
}
