package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

type AddToCartInput struct {
	UserID    uint `json:"userId"`
	ProductID uint `json:"productId"`
	Quantity  *int `json:"quantity"`
}

type QuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartLine pairs a cart row with the product it refers to.
type CartLine struct {
	CartItem      models.CartItem `json:"cartItem"`
	ProductDetail *models.Product `json:"productDetail"`
}

// POST /add-to-cart
func AddToCart(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		if input.UserID == 0 || input.ProductID == 0 {
			respond.BadRequest(c, "productId and userId are required")
			return
		}
		quantity := 1
		if input.Quantity != nil {
			quantity = *input.Quantity
		}
		if quantity < 1 {
			respond.BadRequest(c, "quantity must be at least 1")
			return
		}

		item, err := s.AddToCart(c.Request.Context(), input.UserID, input.ProductID, quantity)
		if err != nil {
			respond.Error(c, err, "Product not found")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart successfully", "cartItem": item})
	}
}

// GET /cart/:userId
func GetCart(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.ID(c, "userId")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		items, err := s.ListCart(ctx, userID)
		if err != nil {
			respond.Internal(c, err)
			return
		}

		ids := make([]uint, len(items))
		for i, it := range items {
			ids[i] = it.ProductID
		}
		products, err := s.GetProductsByIDs(ctx, ids)
		if err != nil {
			respond.Internal(c, err)
			return
		}
		byID := make(map[uint]*models.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		lines := make([]CartLine, len(items))
		for i, it := range items {
			lines[i] = CartLine{CartItem: it, ProductDetail: byID[it.ProductID]}
		}
		c.JSON(http.StatusOK, lines)
	}
}

// PUT /cart/:userId/:productId
func UpdateQuantity(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.ID(c, "userId")
		if !ok {
			return
		}
		productID, ok := respond.ID(c, "productId")
		if !ok {
			return
		}

		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "quantity must be at least 1")
			return
		}

		item, err := s.SetCartQuantity(c.Request.Context(), userID, productID, input.Quantity)
		if err != nil {
			respond.Error(c, err, "Cart item not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Quantity updated successfully!", "cartItem": item})
	}
}

// DELETE /cart/:userId/:productId
func RemoveItem(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.ID(c, "userId")
		if !ok {
			return
		}
		productID, ok := respond.ID(c, "productId")
		if !ok {
			return
		}

		if err := s.RemoveFromCart(c.Request.Context(), userID, productID); err != nil {
			respond.Internal(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /cart/:userId
func ClearCart(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.ID(c, "userId")
		if !ok {
			return
		}

		removed, err := s.ClearCart(c.Request.Context(), userID)
		if err != nil {
			respond.Internal(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully!", "removed": removed})
	}
}
