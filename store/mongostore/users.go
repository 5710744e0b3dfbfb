package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

// CreateUser checks the email before taking an ID. A concurrent registration with
// the same email still fails on the unique index, which may leave a gap in user IDs.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	n, err := s.col(colUsers).CountDocuments(ctx, bson.M{"email": u.Email})
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return store.ErrDuplicate
	}

	id, err := s.nextID(ctx, store.SequenceUsers)
	if err != nil {
		return err
	}
	row := *u
	row.ID = id
	if row.Role == "" {
		row.Role = models.RoleUser
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if _, err := s.col(colUsers).InsertOne(ctx, row); err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	*u = row
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := s.col(colUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, translate(err)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.col(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, translate(err)
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cur, err := s.col(colUsers).Find(ctx,
		bson.M{"_id": bson.M{"$in": store.UniqueIDs(ids)}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
