package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"bidcheck/internal/port"
)

type redisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a fixed-window limiter shared by every instance
// connected to the same Redis.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration, prefix string) port.RateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &redisLimiter{client: client, max: max, window: window, prefix: prefix}
}

// Allow counts the request and reports whether the key is still within its
// window. Redis errors fail open.
func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("ratelimit.redis: %w", err)
	}

	// The window starts at the first hit; later hits must not extend it.
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, fmt.Errorf("ratelimit.redis expire: %w", err)
		}
	}

	return incr.Val() <= int64(l.max), nil
}
