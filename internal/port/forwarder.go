package port

import (
	"context"
	"time"
)

// ForwardResult is the upstream response relayed back to the caller.
type ForwardResult struct {
	StatusCode int
	Body       []byte
}

// ThrottledError is implemented by forwarder errors that can report provider
// throttling and the delay the provider asked for.
type ThrottledError interface {
	error
	RateLimited() bool
	RetryDelay() time.Duration
}

// GenerationForwarder relays a content-generation request body to the AI provider.
type GenerationForwarder interface {
	Forward(ctx context.Context, body []byte) (*ForwardResult, error)
}
