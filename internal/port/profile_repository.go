package port

import (
	"context"

	"bidcheck/internal/domain"
)

// ProfileRepository defines the contract for user profile persistence.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}
