package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/logger"
	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

type credentials struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /register
func Register(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "email and password are required")
			return
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			respond.Internal(c, err)
			return
		}

		user := models.User{
			FullName: req.FullName,
			Email:    req.Email,
			Password: hash,
			Role:     models.RoleUser,
		}
		if err := users.CreateUser(c.Request.Context(), &user); err != nil {
			respond.Error(c, err, "")
			return
		}

		logger.FromContext(c).WithField("user_id", user.ID).Info("user registered")
		c.JSON(http.StatusCreated, gin.H{"message": "Registration successful!", "userId": user.ID})
	}
}

// POST /login
func Login(users store.UserStore, tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "email and password are required")
			return
		}

		user, err := users.GetUserByEmail(c.Request.Context(), req.Email)
		switch {
		case errors.Is(err, store.ErrNotFound):
			_ = bcrypt.CompareHashAndPassword(unknownUserHash, passwordInput(req.Password))
			invalidCredentials(c)
			return
		case err != nil:
			respond.Internal(c, err)
			return
		}
		if !CheckPassword(user.Password, req.Password) {
			invalidCredentials(c)
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			respond.Internal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"userId":  user.ID,
			"user":    user,
		})
	}
}

func invalidCredentials(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
}

// POST /logout. Tokens are stateless; the client drops its copy.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
	}
}

// GET /protected-route, behind middleware.ValidateToken.
func ProtectedRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"message": "Protected route accessed", "user": claims})
	}
}
