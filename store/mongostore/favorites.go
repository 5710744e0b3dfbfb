package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopline/shop-api/models"
)

func (s *Store) AddFavorite(ctx context.Context, userID, productID uint) (bool, error) {
	if err := s.productsExist(ctx, productID); err != nil {
		return false, err
	}
	var res *mongo.UpdateResult
	err := upsertRetry(func() (err error) {
		res, err = s.col(colFavorites).UpdateOne(ctx,
			pair(userID, productID),
			bson.M{"$setOnInsert": bson.M{"createdAt": time.Now().UTC()}},
			options.Update().SetUpsert(true),
		)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("upsert favorite: %w", err)
	}
	return res.UpsertedCount > 0, nil
}

func (s *Store) ListFavorites(ctx context.Context, userID uint) ([]models.Favorite, error) {
	cur, err := s.col(colFavorites).Find(ctx, bson.M{"user": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "product", Value: 1}}))
	if err != nil {
		return nil, err
	}
	favs := []models.Favorite{}
	if err := cur.All(ctx, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, productID uint) error {
	_, err := s.col(colFavorites).DeleteOne(ctx, pair(userID, productID))
	return err
}
