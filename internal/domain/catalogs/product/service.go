package product

import (
	"context"
	"fmt"
	"time"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/pkg/logger"
)

// Service provides business operations for the Product catalog.
type Service struct {
	repo      Repository
	positions inventory.Repository
}

// NewService creates a new product service.
func NewService(repo Repository, positions inventory.Repository) *Service {
	return &Service{
		repo:      repo,
		positions: positions,
	}
}

// Create registers a new product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "id", p.ID, "name", p.Name)
	return nil
}

// Update changes product master data.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, p)
}

// GetByID retrieves one product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Delete removes a product. Rejected while any shop still holds quantity
// for it.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return err
	}

	positions, err := s.positions.ListPositionsByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}
	for _, p := range positions {
		if p.QuantityOnHand != 0 {
			return apperror.NewBusinessRule("product still has stock on hand and cannot be deleted").
				WithDetail("product_id", productID).
				WithDetail("shop_id", p.ShopID).
				WithDetail("quantity_on_hand", p.QuantityOnHand)
		}
	}

	return s.repo.Delete(ctx, productID)
}
