package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bidcheck/internal/domain"
)

// MailQueueRepository is the outbound transactional email queue.
type MailQueueRepository interface {
	Enqueue(ctx context.Context, msg *domain.MailMessage) error
	// ClaimPending moves up to limit pending messages to sending and returns them.
	ClaimPending(ctx context.Context, limit int) ([]domain.MailMessage, error)
	// ReclaimStale returns messages claimed before claimedBefore and never
	// resolved to pending, reporting how many were reset.
	ReclaimStale(ctx context.Context, claimedBefore time.Time) (int64, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	// MarkFailed records the error; the message returns to pending unless final is set.
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, final bool) error
}
