package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the registration record of a user. It is written once and never
// mutated afterwards.
type Profile struct {
	UserID       string      `db:"user_id" json:"user_id"`
	Name         string      `db:"name" json:"name"`
	Role         ProfileRole `db:"role" json:"role"`
	Organization string      `db:"organization" json:"organization"`
	Email        string      `db:"email" json:"email"`
	Phone        string      `db:"phone" json:"phone"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// Entitlement tracks free-tier usage and paid-subscription status for one user.
type Entitlement struct {
	UserID            string     `db:"user_id" json:"user_id"`
	AuditCount        int        `db:"audit_count" json:"audit_count"`
	Subscribed        bool       `db:"subscribed" json:"subscribed"`
	BillingCustomerID *string    `db:"billing_customer_id" json:"billing_customer_id,omitempty"`
	BillingEventAt    *time.Time `db:"billing_event_at" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// CustomerID returns the stored billing customer id or "" when none is on file.
func (e *Entitlement) CustomerID() string {
	if e == nil || e.BillingCustomerID == nil {
		return ""
	}
	return *e.BillingCustomerID
}

// BillingEvent records a provider event that has been applied.
type BillingEvent struct {
	EventID     string    `db:"event_id" json:"event_id"`
	Type        string    `db:"type" json:"type"`
	ProcessedAt time.Time `db:"processed_at" json:"processed_at"`
}

// MailMessage is a row in the outbound transactional email queue.
type MailMessage struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	ToAddress string       `db:"to_address" json:"to_address"`
	ToName    string       `db:"to_name" json:"to_name"`
	Template  MailTemplate `db:"template" json:"template"`
	Subject   string       `db:"subject" json:"subject"`
	TextBody  string       `db:"text_body" json:"text_body"`
	HTMLBody  string       `db:"html_body" json:"html_body"`
	Status    MailStatus   `db:"status" json:"status"`
	Attempts  int          `db:"attempts" json:"attempts"`
	LastError string       `db:"last_error" json:"last_error"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	SentAt    *time.Time   `db:"sent_at" json:"sent_at"`
}
