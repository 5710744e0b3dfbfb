package routes

import (
	"github.com/gin-gonic/gin"

	productcontroller "github.com/shopline/shop-api/controllers/product"
	"github.com/shopline/shop-api/middleware"
)

func SetupProductRoutes(r *gin.Engine, d Deps) {
	admin := middleware.ValidateAPIKey(d.AdminAPIKey)

	products := r.Group("/products")
	{
		products.GET("", productcontroller.ListProducts(d.Store))
		products.GET("/:productId", productcontroller.GetProductByID(d.Store))
		products.POST("", admin, productcontroller.CreateProduct(d.Store))
		products.PUT("/:productId", admin, productcontroller.UpdateProduct(d.Store))
		products.DELETE("/:productId", admin, productcontroller.DeleteProduct(d.Store))
	}

	// ─────────── Spreadsheet round trip ───────────
	productAdmin := r.Group("/admin/products", admin)
	{
		productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Store))
		productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Store))
	}
}
