package port

import "context"

// RateLimiter admits or rejects a request for a client key within a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
