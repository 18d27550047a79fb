package port

import (
	"context"

	"bidcheck/internal/domain"
)

// EmailSender defines the contract for delivering a queued email.
type EmailSender interface {
	Send(ctx context.Context, msg *domain.MailMessage) error
}
