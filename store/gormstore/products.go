package gormstore

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, store.SequenceProducts)
		if err != nil {
			return err
		}
		row := *p
		row.ID = id
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert product: %w", translate(err))
		}
		*p = row
		return nil
	})
}

func (s *Store) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	return p, translate(err)
}

func (s *Store) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", store.UniqueIDs(ids)).Order("id").Find(&products).Error
	return products, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const titleSearch = `(LOWER(title_t1) LIKE @p ESCAPE '\' OR LOWER(title_t2) LIKE @p ESCAPE '\' OR ` +
	`LOWER(title_t3) LIKE @p ESCAPE '\' OR LOWER(title_t4) LIKE @p ESCAPE '\' OR LOWER(title_t5) LIKE @p ESCAPE '\')`

func (s *Store) ListProducts(ctx context.Context, q store.ProductQuery) ([]models.Product, error) {
	tx := s.db.WithContext(ctx).Model(&models.Product{})
	// SQLite's LOWER only folds ASCII, so that dialect filters after the query.
	foldInGo := s.db.Dialector.Name() == "sqlite"
	if q.Search != "" && !foldInGo {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		tx = tx.Where(titleSearch, map[string]interface{}{"p": pattern})
	}
	if f, ok := models.ProductSortFields[q.Sort]; ok {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: f.Column}})
	}
	tx = tx.Order("id")

	products := []models.Product{}
	if err := tx.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if q.Search != "" && foldInGo {
		products = filterByTitle(products, q.Search)
	}
	return products, nil
}

func filterByTitle(products []models.Product, search string) []models.Product {
	needle := strings.ToLower(search)
	out := products[:0]
	for _, p := range products {
		for _, t := range []string{p.Title.T1, p.Title.T2, p.Title.T3, p.Title.T4, p.Title.T5} {
			if strings.Contains(strings.ToLower(t), needle) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (s *Store) UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) (models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return translate(err)
		}
		if patch.Empty() {
			return nil
		}
		patch.Apply(&p)
		return tx.Save(&p).Error
	})
	return p, err
}

// DeleteProduct removes the product row and, in the same transaction, every favorite,
// cart item and order that references it.
func (s *Store) DeleteProduct(ctx context.Context, id uint) (models.Product, store.CascadeResult, error) {
	var (
		p   models.Product
		res store.CascadeResult
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Delete(&p).Error; err != nil {
			return fmt.Errorf("delete product: %w", err)
		}

		del := tx.Where("product_id = ?", id).Delete(&models.Favorite{})
		if del.Error != nil {
			return fmt.Errorf("delete favorites: %w", del.Error)
		}
		res.Favorites = del.RowsAffected

		del = tx.Where("product_id = ?", id).Delete(&models.CartItem{})
		if del.Error != nil {
			return fmt.Errorf("delete cart items: %w", del.Error)
		}
		res.CartItems = del.RowsAffected

		del = tx.Where("product_id = ?", id).Delete(&models.Order{})
		if del.Error != nil {
			return fmt.Errorf("delete orders: %w", del.Error)
		}
		res.Orders = del.RowsAffected
		return nil
	})
	if err != nil {
		return models.Product{}, store.CascadeResult{}, err
	}
	return p, res, nil
}
