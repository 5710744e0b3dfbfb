package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/auth"
	"github.com/shopline/shop-api/logger"
)

// ValidateToken rejects requests without a valid Authorization token and stores
// the verified claims on the context for the handler.
func ValidateToken(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Missing Token"})
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			logger.FromContext(c).WithError(err).Debug("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid Token"})
			return
		}

		auth.SetClaims(c, claims)
		c.Set("user_id", claims.UserID)
		logger.Attach(c, logger.FromContext(c).WithField("user_id", claims.UserID))
		c.Next()
	}
}
