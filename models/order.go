package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "Pending"
	OrderStatusApproved OrderStatus = "Approved"
	OrderStatusRejected OrderStatus = "Rejected"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected:
		return true
	}
	return false
}

// Order is one purchased line: a multi-item checkout creates one Order per item.
type Order struct {
	ID            uint        `gorm:"primaryKey;autoIncrement:false" json:"orderID" bson:"_id"`
	UserID        uint        `gorm:"index;not null" json:"userID" bson:"user"`
	ProductID     uint        `gorm:"index;not null" json:"productID" bson:"product"`
	Quantity      int         `gorm:"not null" json:"quantity" bson:"quantity"`
	TotalPrice    float64     `gorm:"not null" json:"totalPrice" bson:"totalPrice"`
	OrderDate     time.Time   `gorm:"not null" json:"orderDate" bson:"orderDate"`
	Status        OrderStatus `gorm:"type:varchar(10);not null" json:"status" bson:"status"`
	AdminComments string      `json:"adminComments,omitempty" bson:"adminComments,omitempty"`
}

// Price is a client-supplied unit price. It accepts a JSON number or a numeric string,
// since catalog prices are stored as text.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Price(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("price must be a number or numeric string")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("price %q is not numeric", s)
	}
	*p = Price(n)
	return nil
}

// LineItem is one (product, quantity, price) entry of an order placement request.
type LineItem struct {
	ProductID uint  `json:"product" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
	Price     Price `json:"price" binding:"gte=0"`
}

// Total is the line's price times its quantity.
func (li LineItem) Total() float64 {
	return float64(li.Price) * float64(li.Quantity)
}
