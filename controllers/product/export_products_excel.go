package productcontroller

import (
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/logger"
	"github.com/shopline/shop-api/store"
)

func ExportProductsToExcel(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.ListProducts(c.Request.Context(), store.ProductQuery{})
		if err != nil {
			respond.Internal(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			respond.Internal(c, err)
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range excelHeaders {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range list {
			row := sheet.AddRow()
			row.AddCell().SetInt(int(p.ID))
			for _, v := range []string{
				p.Name,
				p.Title.T1, p.Title.T2, p.Title.T3, p.Title.T4, p.Title.T5,
				string(p.Price), p.Image, p.Model, string(p.Year), p.Type,
			} {
				row.AddCell().SetString(v)
			}
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			// The status line is already sent.
			logger.FromContext(c).WithError(err).Error("write excel export")
		}
	}
}
