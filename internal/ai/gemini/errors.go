package gemini

import (
	"fmt"
	"strconv"
	"time"

	"bidcheck/internal/domain"
)

// UpstreamError is returned when the provider answers with a non-2xx status.
type UpstreamError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, truncate(e.Body, 300))
}

func (e *UpstreamError) Unwrap() error {
	return domain.ErrUpstream
}

// RateLimited reports whether the provider throttled the request.
func (e *UpstreamError) RateLimited() bool {
	return e.StatusCode == 429
}

// RetryDelay returns the provider's Retry-After hint, zero when absent.
func (e *UpstreamError) RetryDelay() time.Duration {
	return e.RetryAfter
}

// parseRetryAfterHeader parses a Retry-After header value in seconds.
// Returns 0 if the value is empty or not a valid integer.
func parseRetryAfterHeader(val string) time.Duration {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
