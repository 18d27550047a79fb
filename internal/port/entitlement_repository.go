package port

import (
	"context"
	"time"

	"bidcheck/internal/domain"
)

// EntitlementRepository owns the per-user entitlement records. Every mutation is
// a single named transition; callers never write individual fields.
type EntitlementRepository interface {
	// GetOrCreate returns the record for userID, creating a zero record if absent.
	GetOrCreate(ctx context.Context, userID string) (*domain.Entitlement, error)
	// IncrementUsage atomically adds one audit to the record and returns the result.
	IncrementUsage(ctx context.Context, userID string) (*domain.Entitlement, error)
	// Activate marks the user subscribed and stores the billing customer id. It
	// returns false when a newer billing event has already been applied.
	Activate(ctx context.Context, userID, customerID string, eventAt time.Time) (bool, error)
	// Deactivate clears the subscription flag on every record holding customerID
	// and returns the ids of the records that changed.
	Deactivate(ctx context.Context, customerID string, eventAt time.Time) ([]string, error)
}

// BillingEventRepository records provider events that have been applied so that
// redeliveries are acknowledged without being reapplied.
type BillingEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	Record(ctx context.Context, event *domain.BillingEvent) error
}
