package product

import (
	"context"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// Repository defines storage operations for the Product catalog.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Delete(ctx context.Context, productID id.ID) error
}
