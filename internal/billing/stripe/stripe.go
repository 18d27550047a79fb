// Package stripe adapts the Stripe API to port.BillingProvider.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"bidcheck/internal/config"
	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

// Billing talks to Stripe for sessions and verifies Stripe webhooks.
type Billing struct {
	sc            *stripe.Client
	webhookSecret string
	priceID       string
	returnURL     string
	successURL    string
	cancelURL     string
}

// NewBilling creates a Billing from configuration. Extra client options are
// passed through to stripe.NewClient.
func NewBilling(cfg config.StripeConfig, opts ...stripe.ClientOption) *Billing {
	return &Billing{
		sc:            stripe.NewClient(cfg.SecretKey, opts...),
		webhookSecret: cfg.WebhookSecret,
		priceID:       cfg.PriceID,
		returnURL:     cfg.ReturnURL,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}
}

var _ port.BillingProvider = (*Billing)(nil)

// VerifyWebhook checks the Stripe-Signature header and decodes the event.
// Signature failures wrap domain.ErrInvalidSignature; a verified event whose
// object cannot be decoded wraps domain.ErrInvalidInput.
func (b *Billing) VerifyWebhook(payload []byte, signature string) (*port.WebhookEvent, error) {
	if b.webhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret not configured", domain.ErrInvalidSignature)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, b.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	out := &port.WebhookEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: time.Unix(event.Created, 0).UTC(),
	}
	if event.Data == nil {
		return out, nil
	}

	switch out.Type {
	case domain.EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%w: decoding checkout session %s: %v", domain.ErrInvalidInput, event.ID, err)
		}
		out.ClientReferenceID = session.ClientReferenceID
		if session.Customer != nil {
			out.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			out.SubscriptionID = session.Subscription.ID
		}
	case domain.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: decoding subscription %s: %v", domain.ErrInvalidInput, event.ID, err)
		}
		out.SubscriptionID = sub.ID
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
	}
	return out, nil
}

// CreatePortalSession opens a billing portal session for customerID.
func (b *Billing) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	params := &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(b.returnURL),
	}
	session, err := b.sc.V1BillingPortalSessions.Create(ctx, params)
	if err != nil {
		return "", fmt.Errorf("creating portal session: %w", err)
	}
	return session.URL, nil
}

// CreateCheckoutSession opens a subscription checkout carrying userID as the
// client reference so the completion webhook can find the user.
func (b *Billing) CreateCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	if b.priceID == "" {
		return "", fmt.Errorf("creating checkout session: %w: price not configured", domain.ErrInvalidInput)
	}
	params := &stripe.CheckoutSessionCreateParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(b.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(userID),
		SuccessURL:        stripe.String(b.successURL),
		CancelURL:         stripe.String(b.cancelURL),
		Metadata:          map[string]string{"user_id": userID},
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	session, err := b.sc.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return "", fmt.Errorf("creating checkout session: %w", err)
	}
	return session.URL, nil
}
