package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

type profileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo creates a new PostgreSQL-backed ProfileRepository.
func NewProfileRepo(db *sqlx.DB) port.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	profile.CreatedAt = time.Now().UTC()

	query := `INSERT INTO profiles (user_id, name, role, organization, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.Name, profile.Role, profile.Organization,
		profile.Email, profile.Phone, profile.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateProfile
		}
		return fmt.Errorf("profileRepo.Create: %w", err)
	}
	return nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.GetContext(ctx, &profile,
		"SELECT user_id, name, role, organization, email, phone, created_at FROM profiles WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("profileRepo.GetByUserID: %w", err)
	}
	return &profile, nil
}
