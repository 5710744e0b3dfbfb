package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopline/shop-api/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an ID, exposes a request-scoped entry
// through logger.FromContext, and logs the outcome.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		entry := log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		logger.Attach(c, entry)

		start := time.Now()
		c.Next()

		done := logger.FromContext(c).WithFields(logrus.Fields{
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= 500:
			done.Error("request completed")
		case status >= 400:
			done.Warn("request completed")
		default:
			done.Info("request completed")
		}
	}
}
