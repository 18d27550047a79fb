package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

// Webhook outcomes reported to the handler for logging and metrics.
const (
	WebhookApplied   = "applied"
	WebhookSkipped   = "skipped"
	WebhookIgnored   = "ignored"
	WebhookDuplicate = "duplicate"
)

// WebhookResult describes what a verified webhook delivery did.
type WebhookResult struct {
	EventID        string `json:"event_id"`
	EventType      string `json:"event_type"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	Outcome        string `json:"outcome"`
}

// BillingService handles billing provider sessions and webhooks.
type BillingService interface {
	// HandleWebhook verifies and applies a webhook delivery. It returns
	// domain.ErrInvalidSignature without touching state when verification fails.
	// Any other error means the delivery should be retried by the provider.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error)
	CreatePortalSession(ctx context.Context, caller port.Identity, userID string) (string, error)
	CreateCheckoutSession(ctx context.Context, caller port.Identity, userID string) (string, error)
}

type billingService struct {
	provider     port.BillingProvider
	entitlements EntitlementService
	events       port.BillingEventRepository
}

// NewBillingService creates a new BillingService.
func NewBillingService(provider port.BillingProvider, entitlements EntitlementService, events port.BillingEventRepository) BillingService {
	return &billingService{provider: provider, entitlements: entitlements, events: events}
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.provider.VerifyWebhook(payload, signature)
	if err != nil {
		return nil, err
	}
	result := &WebhookResult{EventID: event.ID, EventType: event.Type, SubscriptionID: event.SubscriptionID}
	logger := log.WithFields(log.Fields{
		"event_id":        event.ID,
		"event_type":      event.Type,
		"subscription_id": event.SubscriptionID,
	})

	if event.Type != domain.EventCheckoutCompleted && event.Type != domain.EventSubscriptionDeleted {
		result.Outcome = WebhookIgnored
		return result, nil
	}

	seen, err := s.events.Exists(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("billingService.HandleWebhook: %w", err)
	}
	if seen {
		logger.Info("billingService: duplicate delivery acknowledged")
		result.Outcome = WebhookDuplicate
		return result, nil
	}

	switch event.Type {
	case domain.EventCheckoutCompleted:
		if event.ClientReferenceID == "" || event.CustomerID == "" {
			logger.Warn("billingService: checkout completed without user reference or customer, nothing to apply")
			result.Outcome = WebhookSkipped
			break
		}
		applied, err := s.entitlements.ActivateSubscription(ctx, event.ClientReferenceID, event.CustomerID, event.Created)
		if err != nil {
			return nil, fmt.Errorf("billingService.HandleWebhook activate: %w", err)
		}
		result.Outcome = outcome(applied)

	case domain.EventSubscriptionDeleted:
		if event.CustomerID == "" {
			logger.Warn("billingService: subscription deleted without customer, nothing to apply")
			result.Outcome = WebhookSkipped
			break
		}
		n, err := s.entitlements.DeactivateSubscription(ctx, event.CustomerID, event.Created)
		if err != nil {
			return nil, fmt.Errorf("billingService.HandleWebhook deactivate: %w", err)
		}
		result.Outcome = outcome(n > 0)
	}

	if err := s.events.Record(ctx, &domain.BillingEvent{EventID: event.ID, Type: event.Type}); err != nil {
		// Replaying an applied transition is a no-op.
		logger.WithError(err).Warn("billingService: recording processed event failed")
	}
	return result, nil
}

func outcome(applied bool) string {
	if applied {
		return WebhookApplied
	}
	return WebhookSkipped
}

func (s *billingService) CreatePortalSession(ctx context.Context, caller port.Identity, userID string) (string, error) {
	if err := authorizeSelf(caller, userID); err != nil {
		return "", err
	}
	customerID, err := s.entitlements.CustomerID(ctx, userID)
	if err != nil {
		return "", err
	}
	url, err := s.provider.CreatePortalSession(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("billingService.CreatePortalSession: %w", err)
	}
	return url, nil
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, caller port.Identity, userID string) (string, error) {
	if err := authorizeSelf(caller, userID); err != nil {
		return "", err
	}
	url, err := s.provider.CreateCheckoutSession(ctx, userID, caller.Email)
	if err != nil {
		return "", fmt.Errorf("billingService.CreateCheckoutSession: %w", err)
	}
	return url, nil
}

// authorizeSelf allows callers to act on their own account only.
func authorizeSelf(caller port.Identity, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", domain.ErrInvalidInput)
	}
	if caller.UserID != userID {
		return domain.ErrForbidden
	}
	return nil
}
