package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/store"
)

// GetProductByID returns a single product.
// URL param: /products/:productId
func GetProductByID(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "productId")
		if !ok {
			return
		}

		product, err := products.GetProduct(c.Request.Context(), id)
		if err != nil {
			respond.Error(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
