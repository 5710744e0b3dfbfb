package models

// CartItem is one (user, product) row of a cart; the pair is the primary key.
type CartItem struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false" json:"userID" bson:"user"`
	ProductID uint `gorm:"primaryKey;autoIncrement:false;index" json:"productID" bson:"product"`
	Quantity  int  `gorm:"not null" json:"quantity" bson:"quantity"`
}
