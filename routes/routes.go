package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/auth"
	orderControllers "github.com/shopline/shop-api/controllers/order"
	"github.com/shopline/shop-api/middleware"
	"github.com/shopline/shop-api/store"
)

// Deps carries everything the handlers need; main builds it once.
type Deps struct {
	Store       store.Store
	Tokens      *auth.TokenIssuer
	Hub         *orderControllers.Hub
	AuthLimiter middleware.Limiter
	AdminAPIKey string
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Health and metrics
	SetupSystemRoutes(r, d)

	// 2️⃣ Register / login (rate limited) and the token-gated example route
	SetupAuthRoutes(r, d)

	// 3️⃣ Users, carts and favorites
	SetupUserRoutes(r, d)

	// 4️⃣ Catalog (writes need the admin key when one is configured)
	SetupProductRoutes(r, d)

	// 5️⃣ Orders and the live order feed
	SetupOrderRoutes(r, d)
}
