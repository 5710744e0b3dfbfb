package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/logger"
	"github.com/shopline/shop-api/metrics"
	"github.com/shopline/shop-api/store"
)

// DeleteProduct removes the product together with the favorites, cart entries
// and orders that reference it.
func DeleteProduct(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ID(c, "productId")
		if !ok {
			return
		}

		product, removed, err := products.DeleteProduct(c.Request.Context(), id)
		if err != nil {
			respond.Error(c, err, "Product not found")
			return
		}

		metrics.RecordCascade("favorites", removed.Favorites)
		metrics.RecordCascade("cart_items", removed.CartItems)
		metrics.RecordCascade("orders", removed.Orders)
		logger.FromContext(c).WithFields(logrus.Fields{
			"product_id": id,
			"favorites":  removed.Favorites,
			"cart_items": removed.CartItems,
			"orders":     removed.Orders,
		}).Info("product deleted")

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully", "product": product})
	}
}
