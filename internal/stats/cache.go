package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/farmbatch-backend/pkg/redis"
)

// errUndecodable marks a cached value that no longer matches its Go type.
var errUndecodable = errors.New("undecodable cache entry")

// Cache is a TTL cache of JSON values kept under the stats namespace. It holds
// no transactional state.
type Cache struct {
	store redis.StatsStore
	ttl   time.Duration
}

func NewCache(store redis.StatsStore, ttl time.Duration) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("stats store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("stats cache ttl must be positive")
	}
	return &Cache{store: store, ttl: ttl}, nil
}

// Get decodes the cached value for name into dst. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, name string, dst any) (bool, error) {
	raw, err := c.store.Get(ctx, c.store.StatsKey(name))
	if redis.IsNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w: %w", name, errUndecodable, err)
	}
	return true, nil
}

// Set stores value under name for the cache TTL.
func (c *Cache) Set(ctx context.Context, name string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return c.store.Set(ctx, c.store.StatsKey(name), string(payload), c.ttl)
}

// Expire resets the TTL of name; a non-positive ttl drops it at once. It reports
// false when nothing was cached.
func (c *Cache) Expire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return c.store.Expire(ctx, c.store.StatsKey(name), ttl)
}
