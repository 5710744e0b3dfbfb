package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopline/shop-api/models"
	"github.com/shopline/shop-api/store"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&taken).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken > 0 {
			return store.ErrDuplicate
		}

		id, err := nextID(tx, store.SequenceUsers)
		if err != nil {
			return err
		}
		row := *u
		row.ID = id
		if row.Role == "" {
			row.Role = models.RoleUser
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert user: %w", translate(err))
		}
		*u = row
		return nil
	})
}

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	return u, translate(err)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return u, translate(err)
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", store.UniqueIDs(ids)).Order("id").Find(&users).Error
	return users, err
}
