package domain

// MailStatus represents the delivery lifecycle of a queued email.
type MailStatus string

const (
	MailStatusPending MailStatus = "pending"
	MailStatusSending MailStatus = "sending"
	MailStatusSent    MailStatus = "sent"
	MailStatusFailed  MailStatus = "failed"
)

// MailTemplate names the transactional emails the service sends.
type MailTemplate string

const (
	MailTemplateWelcome              MailTemplate = "welcome"
	MailTemplateSubscriptionActive   MailTemplate = "subscription_active"
	MailTemplateSubscriptionCanceled MailTemplate = "subscription_canceled"
)

// ProfileRole is the buyer-side role a user declares at registration.
type ProfileRole string

const (
	ProfileRoleBuyer       ProfileRole = "buyer"
	ProfileRoleProcurement ProfileRole = "procurement"
	ProfileRoleAdmin       ProfileRole = "admin"
	ProfileRoleOther       ProfileRole = "other"
)

// ValidProfileRoles is the set of accepted profile roles.
var ValidProfileRoles = map[ProfileRole]bool{
	ProfileRoleBuyer:       true,
	ProfileRoleProcurement: true,
	ProfileRoleAdmin:       true,
	ProfileRoleOther:       true,
}

// Billing event types acted on by the webhook handler.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)
