// Package store defines the persistence contract shared by the relational and document backends.
package store

import (
	"context"
	"errors"

	"github.com/shopline/shop-api/models"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field (user email) is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrInvalidReference is returned when a write names a product that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Sequence names one of the monotonic ID counters.
type Sequence string

const (
	SequenceUsers    Sequence = "users"
	SequenceProducts Sequence = "products"
	SequenceOrders   Sequence = "orders"
)

// ProductQuery filters and orders the catalog. An empty Search matches every product;
// Sort must be empty or a key of models.ProductSortFields.
type ProductQuery struct {
	Search string
	Sort   string
}

// CascadeResult reports the dependents removed together with a product.
type CascadeResult struct {
	Favorites int64
	CartItems int64
	Orders    int64
}

type UserStore interface {
	// CreateUser assigns the next user ID and persists u.
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
}

type ProductStore interface {
	// CreateProduct assigns the next product ID and persists p.
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id uint) (models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) (models.Product, error)
	// DeleteProduct removes the product and every cart item, favorite and order
	// referencing it in one atomic step.
	DeleteProduct(ctx context.Context, id uint) (models.Product, CascadeResult, error)
}

type CartStore interface {
	// AddToCart increments the (user, product) quantity by delta, creating the row when absent.
	AddToCart(ctx context.Context, userID, productID uint, delta int) (models.CartItem, error)
	ListCart(ctx context.Context, userID uint) ([]models.CartItem, error)
	// SetCartQuantity overwrites the quantity of an existing row; it never creates one.
	SetCartQuantity(ctx context.Context, userID, productID uint, quantity int) (models.CartItem, error)
	// RemoveFromCart deletes the pair if present; a missing pair is not an error.
	RemoveFromCart(ctx context.Context, userID, productID uint) error
	ClearCart(ctx context.Context, userID uint) (int64, error)
}

type FavoriteStore interface {
	// AddFavorite reports created=false when the pair was already a favorite.
	AddFavorite(ctx context.Context, userID, productID uint) (created bool, err error)
	ListFavorites(ctx context.Context, userID uint) ([]models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, productID uint) error
}

type OrderStore interface {
	// PlaceOrder creates one Pending order per line item, all or nothing.
	PlaceOrder(ctx context.Context, userID uint, items []models.LineItem) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus, comments *string) (models.Order, error)
}

// Store is the full persistence surface used by the HTTP handlers.
type Store interface {
	UserStore
	ProductStore
	CartStore
	FavoriteStore
	OrderStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ValidSort reports whether key is empty or a known product sort key.
func ValidSort(key string) bool {
	if key == "" {
		return true
	}
	_, ok := models.ProductSortFields[key]
	return ok
}

// UniqueIDs returns ids without duplicates, preserving first-seen order.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
