package noop

import (
	"context"

	log "github.com/sirupsen/logrus"

	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

type noopSender struct{}

// NewNoopSender creates an EmailSender that only logs the message envelope.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) Send(_ context.Context, msg *domain.MailMessage) error {
	log.WithFields(log.Fields{
		"to":       msg.ToAddress,
		"template": msg.Template,
		"subject":  msg.Subject,
	}).Info("[NOOP EMAIL] message not delivered")
	return nil
}
