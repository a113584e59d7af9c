package transfer

import (
	"context"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// Repository persists stock transfers.
type Repository interface {
	Create(ctx context.Context, t *Transfer) error
	Update(ctx context.Context, t *Transfer) error

	// GetByID returns NOT_FOUND when the transfer does not exist.
	GetByID(ctx context.Context, transferID id.ID) (*Transfer, error)

	// GetByIDForUpdate is GetByID under a row lock, so completion and
	// cancellation see and transition the status atomically.
	GetByIDForUpdate(ctx context.Context, transferID id.ID) (*Transfer, error)

	List(ctx context.Context) ([]Transfer, error)
	ListByShop(ctx context.Context, shopID id.ID) ([]Transfer, error)
	ListByStatus(ctx context.Context, status Status) ([]Transfer, error)

	Delete(ctx context.Context, transferID id.ID) error
}
