package favoriteControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

type AddFavoriteInput struct {
	UserID    uint `json:"userId"`
	ProductID uint `json:"productId"`
}

// FavoriteItem is a favorite with its product filled in.
type FavoriteItem struct {
	models.Favorite
	Product *models.Product `json:"product"`
}

// POST /add/favorites
func AddFavorite(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddFavoriteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		if input.UserID == 0 || input.ProductID == 0 {
			respond.BadRequest(c, "productId and userId are required")
			return
		}

		created, err := s.AddFavorite(c.Request.Context(), input.UserID, input.ProductID)
		if err != nil {
			respond.Error(c, err, "Product not found")
			return
		}
		if !created {
			c.JSON(http.StatusOK, gin.H{"message": "Product already in favorites"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Item added to favorites successfully"})
	}
}

// GET /favorites/:userId
func GetFavorites(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.ID(c, "userId")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		favs, err := s.ListFavorites(ctx, userID)
		if err != nil {
			respond.Internal(c, err)
			return
		}

		ids := make([]uint, len(favs))
		for i, f := range favs {
			ids[i] = f.ProductID
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

		out := make([]FavoriteItem, len(favs))
		for i, f := range favs {
			out[i] = FavoriteItem{Favorite: f, Product: byID[f.ProductID]}
		}
		c.JSON(http.StatusOK, out)
	}
}

// DELETE /favorites/:userId/:productId
func RemoveFavorite(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.ID(c, "userId")
		if !ok {
			return
		}
		productID, ok := respond.ID(c, "productId")
		if !ok {
			return
		}

		if err := s.RemoveFavorite(c.Request.Context(), userID, productID); err != nil {
			respond.Internal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from favorites"})
	}
}
