package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopline/shop-api/models"
)

func pair(userID, productID uint) bson.M {
	return bson.M{"user": userID, "product": productID}
}

// upsertRetry runs an upsert again when it lost an insert race on a unique index.
// The second attempt finds the winner's document and updates it.
func upsertRetry(upsert func() error) error {
	err := upsert()
	if mongo.IsDuplicateKeyError(err) {
		err = upsert()
	}
	return err
}

func (s *Store) AddToCart(ctx context.Context, userID, productID uint, delta int) (models.CartItem, error) {
	if err := s.productsExist(ctx, productID); err != nil {
		return models.CartItem{}, err
	}
	var item models.CartItem
	err := upsertRetry(func() error {
		return s.col(colCarts).FindOneAndUpdate(ctx,
			pair(userID, productID),
			bson.M{"$inc": bson.M{"quantity": delta}},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&item)
	})
	if err != nil {
		return models.CartItem{}, fmt.Errorf("upsert cart item: %w", translate(err))
	}
	return item, nil
}

func (s *Store) ListCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	cur, err := s.col(colCarts).Find(ctx, bson.M{"user": userID},
		options.Find().SetSort(bson.D{{Key: "product", Value: 1}}))
	if err != nil {
		return nil, err
	}
	items := []models.CartItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetCartQuantity(ctx context.Context, userID, productID uint, quantity int) (models.CartItem, error) {
	var item models.CartItem
	err := s.col(colCarts).FindOneAndUpdate(ctx,
		pair(userID, productID),
		bson.M{"$set": bson.M{"quantity": quantity}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	return item, translate(err)
}

func (s *Store) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	_, err := s.col(colCarts).DeleteOne(ctx, pair(userID, productID))
	return err
}

func (s *Store) ClearCart(ctx context.Context, userID uint) (int64, error) {
	res, err := s.col(colCarts).DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
