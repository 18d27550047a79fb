package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"bidcheck/internal/domain"
	"bidcheck/internal/email"
	"bidcheck/internal/port"
)

// EntitlementService is the single owner of entitlement records. Usage and
// subscription changes go through its named transitions only.
type EntitlementService interface {
	// Status returns the caller's record, creating it on first read.
	Status(ctx context.Context, userID string) (*domain.EntitlementStatus, error)
	// RecordUsage counts one completed audit.
	RecordUsage(ctx context.Context, userID string) (*domain.EntitlementStatus, error)
	// CustomerID returns the billing customer id on file, or
	// domain.ErrBillingCustomerAbsent when there is none.
	CustomerID(ctx context.Context, userID string) (string, error)
	// ActivateSubscription applies a completed checkout. It reports false when
	// a newer billing event was already applied.
	ActivateSubscription(ctx context.Context, userID, customerID string, eventAt time.Time) (bool, error)
	// DeactivateSubscription applies a subscription deletion to every record
	// holding customerID and returns how many changed.
	DeactivateSubscription(ctx context.Context, customerID string, eventAt time.Time) (int, error)
}

type entitlementService struct {
	repo      port.EntitlementRepository
	freeLimit int
	notifier  *mailNotifier
}

// NewEntitlementService creates a new EntitlementService. profiles, queue and
// composer may be nil, in which case no emails are queued on transitions.
func NewEntitlementService(
	repo port.EntitlementRepository,
	freeLimit int,
	profiles port.ProfileRepository,
	queue port.MailQueueRepository,
	composer *email.Composer,
) EntitlementService {
	return &entitlementService{
		repo:      repo,
		freeLimit: freeLimit,
		notifier:  newMailNotifier(profiles, queue, composer),
	}
}

func (s *entitlementService) Status(ctx context.Context, userID string) (*domain.EntitlementStatus, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	ent, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := domain.NewEntitlementStatus(*ent, s.freeLimit)
	return &status, nil
}

func (s *entitlementService) RecordUsage(ctx context.Context, userID string) (*domain.EntitlementStatus, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	ent, err := s.repo.IncrementUsage(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := domain.NewEntitlementStatus(*ent, s.freeLimit)
	return &status, nil
}

func (s *entitlementService) CustomerID(ctx context.Context, userID string) (string, error) {
	ent, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return "", err
	}
	if ent.CustomerID() == "" {
		return "", domain.ErrBillingCustomerAbsent
	}
	return ent.CustomerID(), nil
}

func (s *entitlementService) ActivateSubscription(ctx context.Context, userID, customerID string, eventAt time.Time) (bool, error) {
	if userID == "" || customerID == "" {
		return false, fmt.Errorf("activating subscription: %w", domain.ErrInvalidInput)
	}
	applied, err := s.repo.Activate(ctx, userID, customerID, eventAt)
	if err != nil {
		return false, err
	}
	if !applied {
		log.WithFields(log.Fields{"user_id": userID, "event_at": eventAt}).
			Info("entitlementService: activation older than stored billing state, skipped")
		return false, nil
	}

	log.WithFields(log.Fields{"user_id": userID, "customer_id": customerID}).Info("entitlementService: subscription activated")
	s.notifier.notifyUser(ctx, userID, domain.MailTemplateSubscriptionActive)
	return true, nil
}

func (s *entitlementService) DeactivateSubscription(ctx context.Context, customerID string, eventAt time.Time) (int, error) {
	if customerID == "" {
		return 0, fmt.Errorf("deactivating subscription: %w", domain.ErrInvalidInput)
	}
	userIDs, err := s.repo.Deactivate(ctx, customerID, eventAt)
	if err != nil {
		return 0, err
	}
	if len(userIDs) == 0 {
		log.WithField("customer_id", customerID).Info("entitlementService: no entitlement matched customer, nothing to deactivate")
		return 0, nil
	}

	for _, userID := range userIDs {
		log.WithFields(log.Fields{"user_id": userID, "customer_id": customerID}).Info("entitlementService: subscription deactivated")
		s.notifier.notifyUser(ctx, userID, domain.MailTemplateSubscriptionCanceled)
	}
	return len(userIDs), nil
}
