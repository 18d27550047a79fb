package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

type billingEventRepo struct {
	db *sqlx.DB
}

// NewBillingEventRepo creates a new PostgreSQL-backed BillingEventRepository.
func NewBillingEventRepo(db *sqlx.DB) port.BillingEventRepository {
	return &billingEventRepo{db: db}
}

func (r *billingEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM billing_events WHERE event_id = $1)", eventID)
	if err != nil {
		return false, fmt.Errorf("billingEventRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *billingEventRepo) Record(ctx context.Context, event *domain.BillingEvent) error {
	if event.ProcessedAt.IsZero() {
		event.ProcessedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO billing_events (event_id, type, processed_at) VALUES ($1, $2, $3)
		 ON CONFLICT (event_id) DO NOTHING`,
		event.EventID, event.Type, event.ProcessedAt)
	if err != nil {
		return fmt.Errorf("billingEventRepo.Record: %w", err)
	}
	return nil
}
