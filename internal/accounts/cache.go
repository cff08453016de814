package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// OrgCache is a Redis read-through cache in front of an OrgRepository.
// Cached entries expire after the configured TTL; Invalidate drops an entry
// after an update elsewhere.
type OrgCache struct {
	redis  *redis.Client
	repo   OrgRepository
	ttl    time.Duration
	tracer trace.Tracer
}

// NewOrgCache creates a read-through org cache.
func NewOrgCache(redisClient *redis.Client, repo OrgRepository, ttl time.Duration) *OrgCache {
	if redisClient == nil {
		panic("accounts: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OrgCache{
		redis:  redisClient,
		repo:   repo,
		ttl:    ttl,
		tracer: otel.Tracer("chatlead.internal.accounts"),
	}
}

func orgKey(id string) string {
	return fmt.Sprintf("org:settings:%s", id)
}

// GetOrg returns the cached organization, falling back to the repository
// and populating the cache on a miss. A broken cache entry is treated as a
// miss rather than an error.
func (c *OrgCache) GetOrg(ctx context.Context, id string) (*Organization, error) {
	ctx, span := c.tracer.Start(ctx, "accounts.org_cache_get")
	defer span.End()

	data, err := c.redis.Get(ctx, orgKey(id)).Bytes()
	if err == nil {
		var org Organization
		if err := json.Unmarshal(data, &org); err == nil {
			return &org, nil
		}
	} else if err != redis.Nil {
		span.RecordError(err)
	}

	org, err := c.repo.GetOrg(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(org); err == nil {
		if err := c.redis.Set(ctx, orgKey(id), data, c.ttl).Err(); err != nil {
			span.RecordError(err)
		}
	}
	return org, nil
}

// Invalidate drops the cached entry for an org.
func (c *OrgCache) Invalidate(ctx context.Context, id string) error {
	if err := c.redis.Del(ctx, orgKey(id)).Err(); err != nil {
		return fmt.Errorf("accounts: invalidate org cache: %w", err)
	}
	return nil
}

var _ OrgRepository = (*OrgCache)(nil)
