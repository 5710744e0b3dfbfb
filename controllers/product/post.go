package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/logger"
	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

// CreateProduct adds a catalog entry. Only the name is required.
func CreateProduct(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := c.ShouldBindJSON(&product); err != nil {
			respond.BadRequest(c, "Invalid product: "+err.Error())
			return
		}
		if strings.TrimSpace(product.Name) == "" {
			respond.BadRequest(c, "name is required")
			return
		}
		product.ID = 0

		if err := products.CreateProduct(c.Request.Context(), &product); err != nil {
			respond.Internal(c, err)
			return
		}

		logger.FromContext(c).WithField("product_id", product.ID).Info("product created")
		c.JSON(http.StatusCreated, gin.H{"message": "Product added successful!", "product": product})
	}
}
