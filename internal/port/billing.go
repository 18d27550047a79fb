package port

import (
	"context"
	"time"
)

// WebhookEvent is a verified billing provider event reduced to the fields the
// entitlement transitions need.
type WebhookEvent struct {
	ID                string
	Type              string
	Created           time.Time
	CustomerID        string
	ClientReferenceID string
	SubscriptionID    string
}

// BillingProvider abstracts the external billing service.
type BillingProvider interface {
	// VerifyWebhook checks the signature header against the raw payload and
	// returns the decoded event. It returns domain.ErrInvalidSignature on failure
	// and domain.ErrInvalidInput for a verified event it cannot decode.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
	CreatePortalSession(ctx context.Context, customerID string) (string, error)
	CreateCheckoutSession(ctx context.Context, userID, email string) (string, error)
}
