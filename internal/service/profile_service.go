package service

import (
	"context"
	"fmt"
	"strings"

	"bidcheck/internal/domain"
	"bidcheck/internal/email"
	"bidcheck/internal/port"
)

// CreateProfileInput is the DTO for registering a profile.
type CreateProfileInput struct {
	Name         string             `json:"name" binding:"required"`
	Role         domain.ProfileRole `json:"role"`
	Organization string             `json:"organization"`
	Email        string             `json:"email" binding:"omitempty,email"`
	Phone        string             `json:"phone"`
}

// ProfileService defines the profile registration contract.
type ProfileService interface {
	Create(ctx context.Context, caller port.Identity, input CreateProfileInput) (*domain.Profile, error)
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

type profileService struct {
	repo     port.ProfileRepository
	notifier *mailNotifier
}

// NewProfileService creates a new ProfileService. A welcome email is queued
// for new profiles when queue and composer are set.
func NewProfileService(repo port.ProfileRepository, queue port.MailQueueRepository, composer *email.Composer) ProfileService {
	return &profileService{
		repo:     repo,
		notifier: newMailNotifier(repo, queue, composer),
	}
}

func (s *profileService) Create(ctx context.Context, caller port.Identity, input CreateProfileInput) (*domain.Profile, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	role := input.Role
	if role == "" {
		role = domain.ProfileRoleBuyer
	}
	if !domain.ValidProfileRoles[role] {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	emailAddr := strings.TrimSpace(input.Email)
	if emailAddr == "" {
		emailAddr = caller.Email
	}

	profile := &domain.Profile{
		UserID:       caller.UserID,
		Name:         name,
		Role:         role,
		Organization: strings.TrimSpace(input.Organization),
		Email:        emailAddr,
		Phone:        strings.TrimSpace(input.Phone),
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.notifier.notifyProfile(ctx, profile, domain.MailTemplateWelcome)
	return profile, nil
}

func (s *profileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}
