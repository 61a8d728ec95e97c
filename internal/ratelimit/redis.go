package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter is the shared-cache counter backend for multi-instance
// deployments: INCR plus an EXPIRE set only on the first hit of a window,
// which yields the same fixed-window semantics as [MemoryCounter].
type RedisCounter struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisCounter creates a Redis counter backend under the given key
// prefix.
func NewRedisCounter(client redis.UniversalClient, prefix string) *RedisCounter {
	if prefix == "" {
		prefix = "rgl"
	}
	return &RedisCounter{redis: client, prefix: prefix}
}

// Incr increments the window counter, starting the window on first hit.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := c.prefix + ":" + key

	count, err := c.redis.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count == 1 {
		if err := c.redis.Expire(ctx, fullKey, window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return count, nil
}
