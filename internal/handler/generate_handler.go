package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bidcheck/internal/domain"
	"bidcheck/internal/metrics"
	"bidcheck/internal/middleware"
	"bidcheck/internal/port"
	"bidcheck/internal/service"
)

// GenerateHandler relays audit requests to the AI provider.
type GenerateHandler struct {
	genService service.GenerationService
	metrics    *metrics.Metrics
}

// NewGenerateHandler creates a new GenerateHandler. m may be nil.
func NewGenerateHandler(genService service.GenerationService, m *metrics.Metrics) *GenerateHandler {
	return &GenerateHandler{genService: genService, metrics: m}
}

// generateRequest is only used to check the body's shape; the raw bytes are forwarded.
type generateRequest struct {
	Contents json.RawMessage `json:"contents"`
}

// Generate handles POST /api/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		h.fail(c, "unauthorized", err)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.observe("too_large")
			c.JSON(http.StatusRequestEntityTooLarge, ErrorBody{Error: "request body too large"})
			return
		}
		h.fail(c, "bad_request", domain.ErrInvalidInput)
		return
	}

	var shape generateRequest
	if err := json.Unmarshal(body, &shape); err != nil || len(shape.Contents) == 0 {
		h.observe("bad_request")
		c.JSON(http.StatusBadRequest, ErrorBody{Error: "body must be a JSON object with contents"})
		return
	}

	res, err := h.genService.Generate(c.Request.Context(), identity.UserID, body)
	if err != nil {
		outcome := "error"
		var throttled port.ThrottledError
		switch {
		case errors.Is(err, domain.ErrEntitlementExhausted):
			outcome = "payment_required"
		case errors.As(err, &throttled) && throttled.RateLimited():
			outcome = "upstream_rate_limited"
			delay := throttled.RetryDelay()
			if delay > 0 {
				c.Header("Retry-After", strconv.Itoa(int(delay.Seconds())))
			}
			log.WithFields(log.Fields{"user_id": identity.UserID, "retry_after": delay}).
				Warn("AI provider throttled the request")
		}
		h.fail(c, outcome, err)
		return
	}

	h.observe("ok")
	c.Data(http.StatusOK, "application/json; charset=utf-8", res.Body)
}

func (h *GenerateHandler) fail(c *gin.Context, outcome string, err error) {
	h.observe(outcome)
	HandleFlatError(c, err)
}

func (h *GenerateHandler) observe(outcome string) {
	if h.metrics != nil {
		h.metrics.GenerateRequestsTotal.WithLabelValues(outcome).Inc()
	}
}
