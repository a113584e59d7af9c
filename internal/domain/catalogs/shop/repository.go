package shop

import (
	"context"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// Repository defines storage operations for the Shop catalog.
type Repository interface {
	Create(ctx context.Context, s *Shop) error
	Update(ctx context.Context, s *Shop) error
	GetByID(ctx context.Context, shopID id.ID) (*Shop, error)
	List(ctx context.Context) ([]Shop, error)
	Delete(ctx context.Context, shopID id.ID) error
}
