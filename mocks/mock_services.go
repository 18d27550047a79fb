package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bidcheck/internal/domain"
	"bidcheck/internal/port"
	"bidcheck/internal/service"
)

// MockEntitlementService is a mock implementation of service.EntitlementService.
type MockEntitlementService struct {
	mock.Mock
}

func (m *MockEntitlementService) Status(ctx context.Context, userID string) (*domain.EntitlementStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntitlementStatus), args.Error(1)
}

func (m *MockEntitlementService) RecordUsage(ctx context.Context, userID string) (*domain.EntitlementStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntitlementStatus), args.Error(1)
}

func (m *MockEntitlementService) CustomerID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockEntitlementService) ActivateSubscription(ctx context.Context, userID, customerID string, eventAt time.Time) (bool, error) {
	args := m.Called(ctx, userID, customerID, eventAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntitlementService) DeactivateSubscription(ctx context.Context, customerID string, eventAt time.Time) (int, error) {
	args := m.Called(ctx, customerID, eventAt)
	return args.Int(0), args.Error(1)
}

// MockBillingService is a mock implementation of service.BillingService.
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*service.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WebhookResult), args.Error(1)
}

func (m *MockBillingService) CreatePortalSession(ctx context.Context, caller port.Identity, userID string) (string, error) {
	args := m.Called(ctx, caller, userID)
	return args.String(0), args.Error(1)
}

func (m *MockBillingService) CreateCheckoutSession(ctx context.Context, caller port.Identity, userID string) (string, error) {
	args := m.Called(ctx, caller, userID)
	return args.String(0), args.Error(1)
}

// MockProfileService is a mock implementation of service.ProfileService.
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Create(ctx context.Context, caller port.Identity, input service.CreateProfileInput) (*domain.Profile, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockGenerationService is a mock implementation of service.GenerationService.
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(ctx context.Context, userID string, body []byte) (*port.ForwardResult, error) {
	args := m.Called(ctx, userID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ForwardResult), args.Error(1)
}
