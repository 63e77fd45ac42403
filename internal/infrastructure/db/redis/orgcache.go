package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lexhaven/matters-api/internal/api/metrics"
	"github.com/lexhaven/matters-api/internal/core/domain"
	"github.com/lexhaven/matters-api/internal/core/ports"
)

const organizationTTL = 5 * time.Minute

// OrganizationCache fronts the organization store with a Redis lookaside
// cache. Cache failures are never fatal: lookups fall through to the store,
// so the resolver's fail-closed semantics stay with the store itself.
// Negative results are not cached; a deleted tenant must disappear on the
// next TTL expiry at the latest, and Invalidate forces it immediately.
type OrganizationCache struct {
	client *redis.Client
	next   ports.OrganizationRepository
	log    zerolog.Logger
}

func NewOrganizationCache(client *redis.Client, next ports.OrganizationRepository, log zerolog.Logger) *OrganizationCache {
	return &OrganizationCache{client: client, next: next, log: log}
}

func (c *OrganizationCache) FindActiveByID(ctx context.Context, id string) (*domain.Organization, error) {
	key := c.key(id)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var org domain.Organization
		if jsonErr := json.Unmarshal(payload, &org); jsonErr == nil {
			metrics.OrganizationCacheTotal.WithLabelValues("hit").Inc()
			return &org, nil
		}
		// Corrupt payloads are dropped and refetched.
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("organization_id", id).Msg("organization cache read failed")
	}
	metrics.OrganizationCacheTotal.WithLabelValues("miss").Inc()

	org, err := c.next.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(org); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, payload, organizationTTL).Err(); setErr != nil {
			c.log.Warn().Err(setErr).Str("organization_id", id).Msg("organization cache write failed")
		}
	}
	return org, nil
}

// Invalidate drops the cached organization, e.g. after a deactivation.
func (c *OrganizationCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *OrganizationCache) key(id string) string {
	return fmt.Sprintf("org:%s", id)
}
