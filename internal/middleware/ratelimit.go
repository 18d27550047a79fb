package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bidcheck/internal/metrics"
	"bidcheck/internal/port"
)

// RateLimitMessage is the body text sent with a 429.
const RateLimitMessage = "Too many requests, please try again later."

// RateLimitKey identifies the caller for rate limiting: the authenticated user
// when AuthMiddleware ran first, otherwise the client IP as resolved through the
// engine's trusted proxies.
func RateLimitKey(c *gin.Context) string {
	if userID := c.GetString(ContextKeyUserID); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// RateLimit rejects callers that exceed the limiter's window.
// Limiter errors are logged and the request is let through.
func RateLimit(limiter port.RateLimiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := RateLimitKey(c)
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			if m != nil {
				m.RateLimitedTotal.Inc()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": RateLimitMessage})
			return
		}
		c.Next()
	}
}
