package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"bidcheck/internal/domain"
	"bidcheck/internal/email"
	"bidcheck/internal/port"
)

// mailNotifier queues transactional emails for users who have a profile with
// an email address. Failures are logged and never surface to the caller.
type mailNotifier struct {
	profiles port.ProfileRepository
	queue    port.MailQueueRepository
	composer *email.Composer
}

func newMailNotifier(profiles port.ProfileRepository, queue port.MailQueueRepository, composer *email.Composer) *mailNotifier {
	if profiles == nil || queue == nil || composer == nil {
		return nil
	}
	return &mailNotifier{profiles: profiles, queue: queue, composer: composer}
}

func (n *mailNotifier) notifyUser(ctx context.Context, userID string, tmpl domain.MailTemplate) {
	if n == nil {
		return
	}
	profile, err := n.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.WithError(err).WithField("user_id", userID).Warn("mailNotifier: profile lookup failed")
		}
		return
	}
	n.notifyProfile(ctx, profile, tmpl)
}

func (n *mailNotifier) notifyProfile(ctx context.Context, profile *domain.Profile, tmpl domain.MailTemplate) {
	if n == nil || profile.Email == "" {
		return
	}
	msg, err := n.composer.Compose(tmpl, profile.Email, profile.Name)
	if err != nil {
		log.WithError(err).Warn("mailNotifier: compose failed")
		return
	}
	if err := n.queue.Enqueue(ctx, msg); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id":  profile.UserID,
			"template": tmpl,
		}).Warn("mailNotifier: enqueue failed")
	}
}
