package domain

// DefaultFreeLimit is the number of audits a user may run without a subscription.
const DefaultFreeLimit = 3

// CheckEntitlement reports whether the record may run another audit.
func CheckEntitlement(e Entitlement, freeLimit int) bool {
	return e.Subscribed || e.AuditCount < freeLimit
}

// EntitlementStatus is the read model returned to clients.
type EntitlementStatus struct {
	UserID     string `json:"user_id"`
	AuditCount int    `json:"audit_count"`
	Subscribed bool   `json:"subscribed"`
	FreeLimit  int    `json:"free_limit"`
	Remaining  int    `json:"remaining"`
	Allowed    bool   `json:"allowed"`
}

// NewEntitlementStatus derives the client view of a record.
func NewEntitlementStatus(e Entitlement, freeLimit int) EntitlementStatus {
	remaining := freeLimit - e.AuditCount
	if remaining < 0 {
		remaining = 0
	}
	return EntitlementStatus{
		UserID:     e.UserID,
		AuditCount: e.AuditCount,
		Subscribed: e.Subscribed,
		FreeLimit:  freeLimit,
		Remaining:  remaining,
		Allowed:    CheckEntitlement(e, freeLimit),
	}
}
