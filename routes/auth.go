package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/auth"
	"github.com/shopline/shop-api/middleware"
)

// SetupAuthRoutes registers registration, login, logout and the protected example route.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	limited := middleware.RateLimit(d.AuthLimiter)

	r.POST("/register", limited, auth.Register(d.Store))
	r.POST("/login", limited, auth.Login(d.Store, d.Tokens))
	r.POST("/logout", auth.Logout())

	r.GET("/protected-route", middleware.ValidateToken(d.Tokens), auth.ProtectedRoute())
}
