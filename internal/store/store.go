// Package store defines the persistence boundary of the shop and an
// in-memory implementation of it.
package store

import (
	"context"

	"github.com/ashendes/bec-market/internal/models"
)

// OrderStore persists orders. List methods return newest first.
type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	ListOrdersByUser(ctx context.Context, email string) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	// UpdateOrderStatus writes status and, when shipment is non-nil, the
	// carrier fields. Unknown ids return models.ErrNotFound.
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, shipment *models.Shipment) error
}

// ProductStore persists admin-added products.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) error
	UpdateProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// UserStore persists accounts. Emails are unique.
type UserStore interface {
	FindAccount(ctx context.Context, email string) (models.UserAccount, error)
	CreateAccount(ctx context.Context, account models.UserAccount) error
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
}

// Store is the full persistence service.
type Store interface {
	OrderStore
	ProductStore
	UserStore
}
