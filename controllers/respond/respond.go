// Package respond holds the error-to-HTTP mapping shared by the handlers.
package respond

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/logger"
	"github.com/shopline/shop-api/store"
)

const internalMessage = "Internal Server Error"

// Error writes the response for a store error and aborts the chain. Anything that is
// not a known sentinel is logged and reported as a 500.
func Error(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, store.ErrDuplicate):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, store.ErrInvalidReference):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown product"})
	default:
		Internal(c, err)
	}
}

// Internal logs err with the request logger and writes a generic 500.
func Internal(c *gin.Context, err error) {
	logger.FromContext(c).WithError(err).Error("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalMessage})
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// ID parses a positive integer path parameter. On failure it writes a 400 and returns false.
func ID(c *gin.Context, param string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || n == 0 {
		BadRequest(c, "Invalid "+param)
		return 0, false
	}
	return uint(n), true
}
