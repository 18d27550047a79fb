package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

const entitlementColumns = `user_id, audit_count, subscribed, billing_customer_id,
	billing_event_at, created_at, updated_at`

type entitlementRepo struct {
	db *sqlx.DB
}

// NewEntitlementRepo creates a new PostgreSQL-backed EntitlementRepository.
func NewEntitlementRepo(db *sqlx.DB) port.EntitlementRepository {
	return &entitlementRepo{db: db}
}

func (r *entitlementRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Entitlement, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entitlements (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, fmt.Errorf("entitlementRepo.GetOrCreate insert: %w", err)
	}

	var ent domain.Entitlement
	err = r.db.GetContext(ctx, &ent,
		"SELECT "+entitlementColumns+" FROM entitlements WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("entitlementRepo.GetOrCreate: %w", err)
	}
	return &ent, nil
}

func (r *entitlementRepo) IncrementUsage(ctx context.Context, userID string) (*domain.Entitlement, error) {
	// Single statement so concurrent increments for the same user serialize on the row lock.
	var ent domain.Entitlement
	err := r.db.GetContext(ctx, &ent, `
		INSERT INTO entitlements (user_id, audit_count) VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE
		SET audit_count = entitlements.audit_count + 1,
			updated_at = NOW()
		RETURNING `+entitlementColumns, userID)
	if err != nil {
		return nil, fmt.Errorf("entitlementRepo.IncrementUsage: %w", err)
	}
	return &ent, nil
}

func (r *entitlementRepo) Activate(ctx context.Context, userID, customerID string, eventAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO entitlements (user_id, subscribed, billing_customer_id, billing_event_at)
		VALUES ($1, TRUE, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET subscribed = TRUE,
			billing_customer_id = EXCLUDED.billing_customer_id,
			billing_event_at = EXCLUDED.billing_event_at,
			updated_at = NOW()
		WHERE entitlements.billing_event_at IS NULL
		   OR entitlements.billing_event_at <= EXCLUDED.billing_event_at`,
		userID, customerID, eventAt.UTC())
	if err != nil {
		return false, fmt.Errorf("entitlementRepo.Activate: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("entitlementRepo.Activate: %w", err)
	}
	return rows > 0, nil
}

func (r *entitlementRepo) Deactivate(ctx context.Context, customerID string, eventAt time.Time) ([]string, error) {
	var userIDs []string
	err := r.db.SelectContext(ctx, &userIDs, `
		UPDATE entitlements
		SET subscribed = FALSE,
			billing_event_at = $2,
			updated_at = NOW()
		WHERE billing_customer_id = $1
		  AND (billing_event_at IS NULL OR billing_event_at <= $2)
		RETURNING user_id`,
		customerID, eventAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("entitlementRepo.Deactivate: %w", err)
	}
	return userIDs, nil
}
