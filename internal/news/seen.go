package news

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenCache remembers article URLs across runs so known articles skip the
// store lookup.
type SeenCache interface {
	Seen(ctx context.Context, url string) (bool, error)
	Mark(ctx context.Context, url string) error
}

// DefaultSeenTTL outlives the article retention window.
const DefaultSeenTTL = 31 * 24 * time.Hour

// RedisSeenCache keeps one expiring key per URL.
type RedisSeenCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSeenCache creates a cache over client. A ttl of zero uses DefaultSeenTTL.
func NewRedisSeenCache(client *redis.Client, ttl time.Duration) *RedisSeenCache {
	if ttl <= 0 {
		ttl = DefaultSeenTTL
	}
	return &RedisSeenCache{client: client, prefix: "news:seen:", ttl: ttl}
}

func (c *RedisSeenCache) key(url string) string {
	return c.prefix + url
}

// Seen reports whether url was marked and has not expired.
func (c *RedisSeenCache) Seen(ctx context.Context, url string) (bool, error) {
	err := c.client.Get(ctx, c.key(url)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}

// Mark records url for the cache TTL.
func (c *RedisSeenCache) Mark(ctx context.Context, url string) error {
	return c.client.Set(ctx, c.key(url), 1, c.ttl).Err()
}
