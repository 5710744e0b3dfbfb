package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/logger"
	"github.com/shopline/shop-api/metrics"
	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	OrderItems []models.LineItem `json:"orderItems" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status        models.OrderStatus `json:"status" binding:"required"`
	AdminComments *string            `json:"adminComments"`
}

// -------- Response Structs --------

// UserOrder is an order with its product filled in.
type UserOrder struct {
	models.Order
	Product *models.Product `json:"product"`
}

// OrderedItem is an order with both its user and product filled in.
type OrderedItem struct {
	models.Order
	User    *models.User    `json:"user"`
	Product *models.Product `json:"product"`
}

// -------- Handlers --------

// POST /orders/:userId
func PlaceOrder(s store.Store, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.ID(c, "userId")
		if !ok {
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "Invalid order: "+err.Error())
			return
		}

		orders, err := s.PlaceOrder(c.Request.Context(), userID, req.OrderItems)
		if err != nil {
			respond.Error(c, err, "Product not found")
			return
		}

		metrics.RecordOrdersPlaced(len(orders))
		logger.FromContext(c).WithField("orders", len(orders)).Info("order placed")
		hub.Broadcast(EventOrderPlaced, orders...)

		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully!", "orders": orders})
	}
}

// GET /orders/:userId
func GetUserOrders(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.ID(c, "userId")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		orders, err := s.ListOrdersByUser(ctx, userID)
		if err != nil {
			respond.Internal(c, err)
			return
		}
		products, err := productIndex(c, s, orders)
		if err != nil {
			respond.Internal(c, err)
			return
		}

		out := make([]UserOrder, len(orders))
		for i, o := range orders {
			out[i] = UserOrder{Order: o, Product: products[o.ProductID]}
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /orderedItems
func GetAllOrders(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		orders, err := s.ListOrders(ctx)
		if err != nil {
			respond.Internal(c, err)
			return
		}
		products, err := productIndex(c, s, orders)
		if err != nil {
			respond.Internal(c, err)
			return
		}

		userIDs := make([]uint, len(orders))
		for i, o := range orders {
			userIDs[i] = o.UserID
		}
		users, err := s.GetUsersByIDs(ctx, userIDs)
		if err != nil {
			respond.Internal(c, err)
			return
		}
		byUser := make(map[uint]*models.User, len(users))
		for i := range users {
			byUser[users[i].ID] = &users[i]
		}

		out := make([]OrderedItem, len(orders))
		for i, o := range orders {
			out[i] = OrderedItem{Order: o, User: byUser[o.UserID], Product: products[o.ProductID]}
		}
		c.JSON(http.StatusOK, out)
	}
}

// PUT /orders/:orderId/status
func UpdateOrderStatus(s store.Store, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := respond.ID(c, "orderId")
		if !ok {
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "status is required")
			return
		}
		if !req.Status.Valid() {
			respond.BadRequest(c, "invalid order status")
			return
		}

		order, err := s.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, req.AdminComments)
		if err != nil {
			respond.Error(c, err, "Order not found")
			return
		}

		hub.Broadcast(EventOrderStatusUpdated, order)
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
	}
}

func productIndex(c *gin.Context, s store.ProductStore, orders []models.Order) (map[uint]*models.Product, error) {
	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ProductID
	}
	products, err := s.GetProductsByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}
