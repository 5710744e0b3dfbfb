package models

import "time"

type Favorite struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userID" bson:"user"`
	ProductID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"productID" bson:"product"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
