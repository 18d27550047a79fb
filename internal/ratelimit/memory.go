package ratelimit

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"bidcheck/internal/port"
)

type memoryLimiter struct {
	counters *cache.Cache
	max      int
	window   time.Duration
}

// NewMemoryLimiter creates a fixed-window limiter local to this process.
func NewMemoryLimiter(max int, window time.Duration) port.RateLimiter {
	return &memoryLimiter{
		counters: cache.New(window, 2*window),
		max:      max,
		window:   window,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if err := l.counters.Add(key, 1, l.window); err == nil {
		return l.max >= 1, nil
	}

	n, err := l.counters.IncrementInt(key, 1)
	if err != nil {
		// Expired between Add and IncrementInt; open a new window.
		l.counters.Set(key, 1, l.window)
		n = 1
	}
	return n <= l.max, nil
}
