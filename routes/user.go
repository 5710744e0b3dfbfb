package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/shopline/shop-api/controllers/cart"
	favoriteControllers "github.com/shopline/shop-api/controllers/favorite"
	userControllers "github.com/shopline/shop-api/controllers/user"
)

func SetupUserRoutes(r *gin.Engine, d Deps) {
	// ─────────── Users ───────────
	r.GET("/user/:userId", userControllers.GetUser(d.Store))
	r.GET("/role/:userId", userControllers.GetRole(d.Store))

	// ─────────── Cart ───────────
	r.POST("/add-to-cart", cartControllers.AddToCart(d.Store))
	cart := r.Group("/cart")
	{
		cart.GET("/:userId", cartControllers.GetCart(d.Store))
		cart.DELETE("/:userId", cartControllers.ClearCart(d.Store))
		cart.PUT("/:userId/:productId", cartControllers.UpdateQuantity(d.Store))
		cart.DELETE("/:userId/:productId", cartControllers.RemoveItem(d.Store))
	}

	// ─────────── Favorites ───────────
	r.POST("/add/favorites", favoriteControllers.AddFavorite(d.Store))
	favorites := r.Group("/favorites")
	{
		favorites.GET("/:userId", favoriteControllers.GetFavorites(d.Store))
		favorites.DELETE("/:userId/:productId", favoriteControllers.RemoveFavorite(d.Store))
	}
}
