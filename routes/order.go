package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/shopline/shop-api/controllers/order"
	"github.com/shopline/shop-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	admin := middleware.ValidateAPIKey(d.AdminAPIKey)

	orders := r.Group("/orders")
	{
		// Place one order per line item
		orders.POST("/:userId", orderControllers.PlaceOrder(d.Store, d.Hub))

		// Orders of one user, with products
		orders.GET("/:userId", orderControllers.GetUserOrders(d.Store))

		// Approve / reject (admin)
		orders.PUT("/:orderId/status", admin, orderControllers.UpdateOrderStatus(d.Store, d.Hub))
	}

	// Every order with user and product (admin)
	r.GET("/orderedItems", admin, orderControllers.GetAllOrders(d.Store))

	// websocket endpoint for real-time order updates
	r.GET("/ws/orders", d.Hub.OrderWebSocketHandler)
}
