package purchase

import (
	"context"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// Repository persists purchase orders together with their lines.
type Repository interface {
	// Create stores the order and all its lines.
	Create(ctx context.Context, order *Order) error

	// Update rewrites the order header and replaces its lines.
	Update(ctx context.Context, order *Order) error

	// GetByID returns the order with lines loaded.
	// Returns NOT_FOUND when the order does not exist.
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// GetByIDForUpdate is GetByID under a row lock. The receive and cancel
	// workflows use it so the status check and transition are atomic.
	GetByIDForUpdate(ctx context.Context, orderID id.ID) (*Order, error)

	// List returns all orders, newest first, lines loaded.
	List(ctx context.Context) ([]Order, error)

	// ListByShop returns a shop's orders, newest first, lines loaded.
	ListByShop(ctx context.Context, shopID id.ID) ([]Order, error)

	// ListByStatus returns orders in the given state, newest first.
	ListByStatus(ctx context.Context, status Status) ([]Order, error)

	// Delete removes the order and its lines.
	Delete(ctx context.Context, orderID id.ID) error
}
