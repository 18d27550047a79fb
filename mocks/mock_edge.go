package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bidcheck/internal/port"
)

// MockGenerationForwarder is a mock implementation of port.GenerationForwarder.
type MockGenerationForwarder struct {
	mock.Mock
}

func (m *MockGenerationForwarder) Forward(ctx context.Context, body []byte) (*port.ForwardResult, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ForwardResult), args.Error(1)
}

// MockRateLimiter is a mock implementation of port.RateLimiter.
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockTokenVerifier is a mock implementation of port.TokenVerifier.
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(token string) (*port.Identity, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Identity), args.Error(1)
}
