package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bidcheck/internal/domain"
	"bidcheck/internal/metrics"
	"bidcheck/internal/middleware"
	"bidcheck/internal/port"
	"bidcheck/internal/service"
)

// BillingHandler handles billing session and webhook endpoints.
type BillingHandler struct {
	billingService service.BillingService
	metrics        *metrics.Metrics
}

// NewBillingHandler creates a new BillingHandler. m may be nil.
func NewBillingHandler(billingService service.BillingService, m *metrics.Metrics) *BillingHandler {
	return &BillingHandler{billingService: billingService, metrics: m}
}

// SessionRequest is the body of the session endpoints.
type SessionRequest struct {
	UserID string `json:"userId"`
}

// CreatePortalSession handles POST /api/create-portal-session
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	identity, req, ok := h.sessionInput(c)
	if !ok {
		return
	}
	url, err := h.billingService.CreatePortalSession(c.Request.Context(), identity, req.UserID)
	if err != nil {
		HandleFlatError(c, err)
		return
	}
	c.JSON(http.StatusOK, URLBody{URL: url})
}

// CreateCheckoutSession handles POST /api/create-checkout-session
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	identity, req, ok := h.sessionInput(c)
	if !ok {
		return
	}
	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), identity, req.UserID)
	if err != nil {
		HandleFlatError(c, err)
		return
	}
	c.JSON(http.StatusOK, URLBody{URL: url})
}

func (h *BillingHandler) sessionInput(c *gin.Context) (port.Identity, SessionRequest, bool) {
	var req SessionRequest
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		HandleFlatError(c, err)
		return identity, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, ErrorBody{Error: "userId is required"})
		return identity, req, false
	}
	return identity, req, true
}

// Webhook handles POST /api/webhook. The raw body is verified against the
// Stripe-Signature header before anything is applied.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorBody{Error: "unreadable body"})
		return
	}

	result, err := h.billingService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			h.observe("unknown", "invalid_signature")
			log.WithError(err).Warn("webhook signature verification failed")
			c.JSON(http.StatusBadRequest, ErrorBody{Error: "Webhook Error: invalid signature"})
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.observe("unknown", "malformed")
			log.WithError(err).Error("verified webhook event could not be decoded")
			c.JSON(http.StatusBadRequest, ErrorBody{Error: "Webhook Error: malformed event"})
			return
		}
		h.observe("unknown", "error")
		HandleFlatError(c, err)
		return
	}

	h.observe(result.EventType, result.Outcome)
	if h.metrics != nil && result.Outcome == service.WebhookApplied {
		transition := "activate"
		if result.EventType == domain.EventSubscriptionDeleted {
			transition = "deactivate"
		}
		h.metrics.SubscriptionChanges.WithLabelValues(transition).Inc()
	}
	log.WithFields(log.Fields{
		"event_id":        result.EventID,
		"event_type":      result.EventType,
		"subscription_id": result.SubscriptionID,
		"outcome":         result.Outcome,
	}).Info("webhook processed")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *BillingHandler) observe(eventType, result string) {
	if h.metrics != nil {
		h.metrics.WebhookEventsTotal.WithLabelValues(eventType, result).Inc()
	}
}
