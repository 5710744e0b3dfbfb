package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/store"
)

// ListProducts searches the five title fields and optionally sorts ascending by one field.
// URL: /products?search=&sort=
func ListProducts(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := store.ProductQuery{
			Search: c.Query("search"),
			Sort:   c.Query("sort"),
		}
		if !store.ValidSort(q.Sort) {
			respond.BadRequest(c, "Invalid sort field: "+q.Sort)
			return
		}

		list, err := products.ListProducts(c.Request.Context(), q)
		if err != nil {
			respond.Internal(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
