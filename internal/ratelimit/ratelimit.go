// Package ratelimit provides fixed-window request limiters keyed by client.
package ratelimit

import (
	"time"

	"github.com/go-redis/redis/v8"

	"bidcheck/internal/config"
	"bidcheck/internal/port"
)

// New returns a Redis-backed limiter when redisClient is non-nil, otherwise an
// in-process one.
func New(redisClient *redis.Client, cfg config.RateLimitConfig) port.RateLimiter {
	window := cfg.Window
	if window <= 0 {
		window = 15 * time.Minute
	}
	if redisClient != nil {
		return NewRedisLimiter(redisClient, cfg.MaxRequests, window, "bidcheck:ratelimit")
	}
	return NewMemoryLimiter(cfg.MaxRequests, window)
}
