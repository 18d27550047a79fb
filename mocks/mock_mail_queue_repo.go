package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bidcheck/internal/domain"
)

// MockMailQueueRepo is a mock implementation of port.MailQueueRepository.
type MockMailQueueRepo struct {
	mock.Mock
}

func (m *MockMailQueueRepo) Enqueue(ctx context.Context, msg *domain.MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMailQueueRepo) ClaimPending(ctx context.Context, limit int) ([]domain.MailMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MailMessage), args.Error(1)
}

func (m *MockMailQueueRepo) ReclaimStale(ctx context.Context, claimedBefore time.Time) (int64, error) {
	args := m.Called(ctx, claimedBefore)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMailQueueRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMailQueueRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, final bool) error {
	args := m.Called(ctx, id, errMsg, final)
	return args.Error(0)
}
