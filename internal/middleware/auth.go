package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
)

// AuthMiddleware returns Gin middleware that validates the bearer identity
// token and injects the caller into the context.
func AuthMiddleware(verifier port.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		identity, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextKeyUserID, identity.UserID)
		c.Set(ContextKeyEmail, identity.Email)
		c.Next()
	}
}

// GetIdentity extracts the authenticated caller from the Gin context.
func GetIdentity(c *gin.Context) (port.Identity, error) {
	userID := c.GetString(ContextKeyUserID)
	if userID == "" {
		return port.Identity{}, domain.ErrUnauthorized
	}
	return port.Identity{UserID: userID, Email: c.GetString(ContextKeyEmail)}, nil
}
