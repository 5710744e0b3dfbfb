package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

// UpdateProduct merges the fields present in the body into the product.
func UpdateProduct(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "productId")
		if !ok {
			return
		}

		var patch models.ProductPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respond.BadRequest(c, "Invalid product: "+err.Error())
			return
		}
		if patch.Name != nil && *patch.Name == "" {
			respond.BadRequest(c, "name cannot be empty")
			return
		}

		product, err := products.UpdateProduct(c.Request.Context(), id, patch)
		if err != nil {
			respond.Error(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
	}
}
