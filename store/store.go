// Package store persists users, products and orders. Callers see simple
// key-based lookups; order status changes are compare-and-swap on the
// record version so concurrent writers never lose an update.
package store

import (
	"context"
	"errors"

	"github.com/Pranay9392/ecommerce-mernstack-backend/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrConflict  = errors.New("record was modified concurrently")
)

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type Products interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type Orders interface {
	// CreateOrder writes the order and its items as one unit.
	CreateOrder(ctx context.Context, o *models.Order) error
	FindOrder(ctx context.Context, id string) (*models.Order, error)
	// UpdateOrderStatus sets the status only if the stored version still
	// equals expectedVersion, and returns the updated order. A stale
	// version yields ErrConflict.
	UpdateOrderStatus(ctx context.Context, id string, expectedVersion int, status models.OrderStatus) (*models.Order, error)
	// ListOrdersByUser and ListOrders return newest first.
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	CountOrdersByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
}

// Store is everything the application persists.
type Store interface {
	Users
	Products
	Orders
}
