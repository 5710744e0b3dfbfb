package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopline/shop-api/models"
)

func (s *Store) AddFavorite(ctx context.Context, userID, productID uint) (bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := productsExist(tx, productID); err != nil {
			return err
		}
		fav := models.Favorite{UserID: userID, ProductID: productID}
		res := tx.Clauses(clause.OnConflict{Columns: userProductKey, DoNothing: true}).Create(&fav)
		if res.Error != nil {
			return fmt.Errorf("insert favorite: %w", res.Error)
		}
		created = res.RowsAffected > 0
		return nil
	})
	return created, err
}

func (s *Store) ListFavorites(ctx context.Context, userID uint) ([]models.Favorite, error) {
	favs := []models.Favorite{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at, product_id").Find(&favs).Error
	return favs, err
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, productID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}).Error
}
