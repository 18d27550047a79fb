// Package email composes the transactional messages placed on the mail queue.
package email

import (
	"fmt"
	"html"

	"bidcheck/internal/domain"
)

// Composer renders transactional templates into queue-ready messages.
type Composer struct {
	frontendURL string
}

// NewComposer creates a Composer whose links point at frontendURL.
func NewComposer(frontendURL string) *Composer {
	return &Composer{frontendURL: frontendURL}
}

// Compose builds the message for tmpl addressed to toAddress.
func (c *Composer) Compose(tmpl domain.MailTemplate, toAddress, toName string) (*domain.MailMessage, error) {
	name := toName
	if name == "" {
		name = "there"
	}
	link := c.frontendURL + "/evaluate"

	var subject, heading, body, action string
	switch tmpl {
	case domain.MailTemplateWelcome:
		subject = "Welcome to BidCheck"
		heading = "Welcome to BidCheck"
		body = "Your account is ready. You can run your first bid audits for free."
		action = "Start an audit"
	case domain.MailTemplateSubscriptionActive:
		subject = "Your BidCheck subscription is active"
		heading = "Subscription active"
		body = "Thanks for subscribing. Audits are now unlimited on your account."
		action = "Open BidCheck"
	case domain.MailTemplateSubscriptionCanceled:
		subject = "Your BidCheck subscription has ended"
		heading = "Subscription ended"
		body = "Your subscription has ended. Free-tier limits apply again and you can resubscribe at any time."
		action = "Manage billing"
	default:
		return nil, fmt.Errorf("email.Compose: %w: unknown template %q", domain.ErrInvalidInput, tmpl)
	}

	return &domain.MailMessage{
		ToAddress: toAddress,
		ToName:    toName,
		Template:  tmpl,
		Subject:   subject,
		TextBody:  fmt.Sprintf("Hi %s,\n\n%s\n\n%s: %s\n\nBidCheck Team", name, body, action, link),
		HTMLBody:  buildHTML(heading, name, body, action, link),
	}, nil
}

func buildHTML(heading, name, body, action, link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>Hi %s,</p>
  <p>%s</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">%s</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">BidCheck - RFQ and Bid Compliance Audits</p>
</body>
</html>`, heading, html.EscapeString(name), body, link, action)
}
