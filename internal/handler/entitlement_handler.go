package handler

import (
	"github.com/gin-gonic/gin"

	"bidcheck/internal/metrics"
	"bidcheck/internal/middleware"
	"bidcheck/internal/service"
)

// EntitlementHandler exposes the caller's entitlement record.
type EntitlementHandler struct {
	entitlementService service.EntitlementService
	metrics            *metrics.Metrics
}

// NewEntitlementHandler creates a new EntitlementHandler. m may be nil.
func NewEntitlementHandler(entitlementService service.EntitlementService, m *metrics.Metrics) *EntitlementHandler {
	return &EntitlementHandler{entitlementService: entitlementService, metrics: m}
}

// Get handles GET /api/entitlement
func (h *EntitlementHandler) Get(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	status, err := h.entitlementService.Status(c.Request.Context(), identity.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, status)
}

// RecordUsage handles POST /api/usage. The client calls it once per
// successfully parsed audit.
func (h *EntitlementHandler) RecordUsage(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	status, err := h.entitlementService.RecordUsage(c.Request.Context(), identity.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.UsageRecordedTotal.Inc()
	}
	RespondOK(c, status)
}
