package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bidcheck/internal/domain"
)

// MockEntitlementRepo is a mock implementation of port.EntitlementRepository.
type MockEntitlementRepo struct {
	mock.Mock
}

func (m *MockEntitlementRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Entitlement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entitlement), args.Error(1)
}

func (m *MockEntitlementRepo) IncrementUsage(ctx context.Context, userID string) (*domain.Entitlement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entitlement), args.Error(1)
}

func (m *MockEntitlementRepo) Activate(ctx context.Context, userID, customerID string, eventAt time.Time) (bool, error) {
	args := m.Called(ctx, userID, customerID, eventAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntitlementRepo) Deactivate(ctx context.Context, customerID string, eventAt time.Time) ([]string, error) {
	args := m.Called(ctx, customerID, eventAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockBillingEventRepo is a mock implementation of port.BillingEventRepository.
type MockBillingEventRepo struct {
	mock.Mock
}

func (m *MockBillingEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillingEventRepo) Record(ctx context.Context, event *domain.BillingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
