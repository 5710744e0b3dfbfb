package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

var userProductKey = []clause.Column{{Name: "user_id"}, {Name: "product_id"}}

func (s *Store) AddToCart(ctx context.Context, userID, productID uint, delta int) (models.CartItem, error) {
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: delta}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := productsExist(tx, productID); err != nil {
			return err
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: userProductKey,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).Create(&item).Error
		if err != nil {
			return fmt.Errorf("upsert cart item: %w", err)
		}
		return tx.Where("user_id = ? AND product_id = ?", userID, productID).Take(&item).Error
	})
	return item, err
}

func (s *Store) ListCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("product_id").Find(&items).Error
	return items, err
}

func (s *Store) SetCartQuantity(ctx context.Context, userID, productID uint, quantity int) (models.CartItem, error) {
	res := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return models.CartItem{}, fmt.Errorf("update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.CartItem{}, store.ErrNotFound
	}
	return models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}, nil
}

func (s *Store) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

func (s *Store) ClearCart(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
