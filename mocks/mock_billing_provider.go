package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bidcheck/internal/port"
)

// MockBillingProvider is a mock implementation of port.BillingProvider.
type MockBillingProvider struct {
	mock.Mock
}

func (m *MockBillingProvider) VerifyWebhook(payload []byte, signature string) (*port.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.WebhookEvent), args.Error(1)
}

func (m *MockBillingProvider) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

func (m *MockBillingProvider) CreateCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	args := m.Called(ctx, userID, email)
	return args.String(0), args.Error(1)
}
