package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

func (s *Store) PlaceOrder(ctx context.Context, userID uint, items []models.LineItem) ([]models.Order, error) {
	var orders []models.Order
	err := s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		ids := make([]uint, len(items))
		for i, it := range items {
			ids[i] = it.ProductID
		}
		if err := s.productsExist(sc, ids...); err != nil {
			return err
		}

		now := time.Now().UTC()
		orders = make([]models.Order, 0, len(items))
		docs := make([]interface{}, 0, len(items))
		for _, it := range items {
			id, err := s.nextID(sc, store.SequenceOrders)
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
			orders = append(orders, o)
			docs = append(docs, o)
		}
		if _, err := s.col(colOrders).InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := s.col(colOrders).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{"user": userID})
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(ctx, bson.M{})
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus, comments *string) (models.Order, error) {
	set := bson.M{"status": status}
	if comments != nil {
		set["adminComments"] = *comments
	}
	var o models.Order
	err := s.col(colOrders).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	return o, translate(err)
}
