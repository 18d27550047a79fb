package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bidcheck/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg *domain.MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
