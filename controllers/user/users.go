package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/store"
)

// GET /user/:userId
func GetUser(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "userId")
		if !ok {
			return
		}

		user, err := users.GetUser(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		if err != nil {
			respond.Internal(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// GET /role/:userId
func GetRole(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "userId")
		if !ok {
			return
		}

		user, err := users.GetUser(c.Request.Context(), id)
		if err != nil {
			respond.Error(c, err, "User not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"role": user.Role})
	}
}
