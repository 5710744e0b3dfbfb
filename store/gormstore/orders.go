package gormstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

func (s *Store) PlaceOrder(ctx context.Context, userID uint, items []models.LineItem) ([]models.Order, error) {
	orders := make([]models.Order, 0, len(items))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, len(items))
		for i, it := range items {
			ids[i] = it.ProductID
		}
		if err := productsExist(tx, ids...); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, it := range items {
			id, err := nextID(tx, store.SequenceOrders)
			if err != nil {
				return err
			}
			o := models.Order{
				ID:         id,
				UserID:     userID,
				ProductID:  it.ProductID,
				Quantity:   it.Quantity,
				TotalPrice: it.Total(),
				OrderDate:  now,
				Status:     models.OrderStatusPending,
			}
			if err := tx.Create(&o).Error; err != nil {
				return fmt.Errorf("insert order: %w", err)
			}
			orders = append(orders, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&orders).Error
	return orders, err
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).Order("id").Find(&orders).Error
	return orders, err
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus, comments *string) (models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&o, id).Error; err != nil {
			return translate(err)
		}
		o.Status = status
		if comments != nil {
			o.AdminComments = *comments
		}
		return tx.Save(&o).Error
	})
	return o, err
}
