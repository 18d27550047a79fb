package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bidcheck/internal/domain"
	"bidcheck/internal/email"
	"bidcheck/internal/port"
	"bidcheck/internal/service"
	"bidcheck/mocks"
)

func TestProfileService_Create_QueuesWelcome(t *testing.T) {
	repo := new(mocks.MockProfileRepo)
	queue := new(mocks.MockMailQueueRepo)
	svc := service.NewProfileService(repo, queue, email.NewComposer("https://app.test"))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)
	queue.On("Enqueue", mock.Anything, mock.MatchedBy(func(m *domain.MailMessage) bool {
		return m.Template == domain.MailTemplateWelcome && m.ToAddress == "token@acme.test"
	})).Return(nil)

	p, err := svc.Create(context.Background(), port.Identity{UserID: "user-1", Email: "token@acme.test"},
		service.CreateProfileInput{Name: "  Ada  ", Organization: "Acme"})

	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, domain.ProfileRoleBuyer, p.Role)
	assert.Equal(t, "token@acme.test", p.Email)
	queue.AssertExpectations(t)
}

func TestProfileService_Create_Validation(t *testing.T) {
	repo := new(mocks.MockProfileRepo)
	svc := service.NewProfileService(repo, nil, nil)
	caller := port.Identity{UserID: "user-1"}

	_, err := svc.Create(context.Background(), caller, service.CreateProfileInput{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(context.Background(), caller, service.CreateProfileInput{Name: "Ada", Role: "ceo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(context.Background(), port.Identity{}, service.CreateProfileInput{Name: "Ada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProfileService_Create_Duplicate(t *testing.T) {
	repo := new(mocks.MockProfileRepo)
	queue := new(mocks.MockMailQueueRepo)
	svc := service.NewProfileService(repo, queue, email.NewComposer(""))

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateProfile)

	p, err := svc.Create(context.Background(), port.Identity{UserID: "user-1"},
		service.CreateProfileInput{Name: "Ada", Email: "ada@acme.test"})

	assert.Nil(t, p)
	assert.ErrorIs(t, err, domain.ErrDuplicateProfile)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestProfileService_Get(t *testing.T) {
	repo := new(mocks.MockProfileRepo)
	svc := service.NewProfileService(repo, nil, nil)
	expected := &domain.Profile{UserID: "user-1", Name: "Ada"}

	repo.On("GetByUserID", mock.Anything, "user-1").Return(expected, nil)

	p, err := svc.Get(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, expected, p)
}
