package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopline/shop-api/store"
)

type counterDoc struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

var sequenceCollections = map[store.Sequence]string{
	store.SequenceUsers:    colUsers,
	store.SequenceProducts: colProducts,
	store.SequenceOrders:   colOrders,
}

// nextID atomically increments the counter for seq. When ctx is a session context
// inside a transaction the increment commits or aborts with it.
func (s *Store) nextID(ctx context.Context, seq store.Sequence) (uint, error) {
	var c counterDoc
	err := s.col(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": string(seq)},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("advance %s sequence: %w", seq, err)
	}
	return uint(c.Seq), nil
}

// seedCounters raises every counter to at least the highest _id already stored.
func (s *Store) seedCounters(ctx context.Context) error {
	for seq, col := range sequenceCollections {
		var top struct {
			ID int64 `bson:"_id"`
		}
		err := s.col(col).FindOne(ctx, bson.M{},
			options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}).SetProjection(bson.M{"_id": 1}),
		).Decode(&top)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("read max %s id: %w", col, err)
		}
		_, err = s.col(colCounters).UpdateOne(ctx,
			bson.M{"_id": string(seq)},
			bson.M{"$max": bson.M{"seq": top.ID}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed %s counter: %w", seq, err)
		}
	}
	return nil
}
