package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"

	"github.com/shopline/shop-api/controllers/respond"
	"github.com/shopline/shop-api/logger"
	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

// Spreadsheet column order shared by import and export.
var excelHeaders = []string{
	"ProductID", "Name", "T1", "T2", "T3", "T4", "T5",
	"Price", "Image", "Model", "Year", "Type",
}

// ImportProductsFromExcel reads the first sheet of an uploaded workbook. Rows whose
// ProductID names an existing product update it; all other rows create a product.
func ImportProductsFromExcel(products store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			respond.BadRequest(c, "Excel file is required")
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			respond.Internal(c, err)
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			respond.BadRequest(c, "Failed to parse Excel file")
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			respond.BadRequest(c, "Excel file is empty or missing header row")
			return
		}

		ctx := c.Request.Context()
		log := logger.FromContext(c)
		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow && i < len(sheet.Rows); i++ {
			row := sheet.Rows[i]
			if row == nil {
				skippedCount++
				continue
			}
			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			product := models.Product{
				Name:  get(1),
				Title: models.Title{T1: get(2), T2: get(3), T3: get(4), T4: get(5), T5: get(6)},
				Price: models.Text(get(7)),
				Image: get(8),
				Model: get(9),
				Year:  models.Text(get(10)),
				Type:  get(11),
			}
			if product.Name == "" {
				skippedCount++
				continue
			}

			if id, err := strconv.ParseUint(get(0), 10, 64); err == nil && id > 0 {
				_, err := products.UpdateProduct(ctx, uint(id), fullPatch(product))
				if err == nil {
					updatedCount++
					continue
				}
				if !errors.Is(err, store.ErrNotFound) {
					log.WithError(err).WithField("row", i+1).Warn("excel row update failed")
					skippedCount++
					continue
				}
			}

			if err := products.CreateProduct(ctx, &product); err != nil {
				log.WithError(err).WithField("row", i+1).Warn("excel row insert failed")
				skippedCount++
				continue
			}
			createdCount++
		}

		log.WithFields(logrus.Fields{
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		}).Info("excel import finished")
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}

// fullPatch overwrites every field of a product with p's values.
func fullPatch(p models.Product) models.ProductPatch {
	return models.ProductPatch{
		Name: &p.Name,
		Title: &models.TitlePatch{
			T1: &p.Title.T1, T2: &p.Title.T2, T3: &p.Title.T3, T4: &p.Title.T4, T5: &p.Title.T5,
		},
		Price: &p.Price,
		Image: &p.Image,
		Model: &p.Model,
		Year:  &p.Year,
		Type:  &p.Type,
	}
}
