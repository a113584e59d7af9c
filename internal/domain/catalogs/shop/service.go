package shop

import (
	"context"
	"fmt"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/pkg/logger"
)

// Service provides business operations for the Shop catalog.
type Service struct {
	repo      Repository
	positions inventory.Repository
}

// NewService creates a new shop service.
func NewService(repo Repository, positions inventory.Repository) *Service {
	return &Service{
		repo:      repo,
		positions: positions,
	}
}

// Create registers a new shop.
func (s *Service) Create(ctx context.Context, sh *Shop) error {
	if err := sh.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, sh); err != nil {
		return fmt.Errorf("create shop: %w", err)
	}

	logger.Info(ctx, "shop created", "id", sh.ID, "name", sh.Name)
	return nil
}

// Update changes shop master data.
func (s *Service) Update(ctx context.Context, sh *Shop) error {
	if err := sh.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, sh)
}

// GetByID retrieves one shop.
func (s *Service) GetByID(ctx context.Context, shopID id.ID) (*Shop, error) {
	return s.repo.GetByID(ctx, shopID)
}

// List returns all shops.
func (s *Service) List(ctx context.Context) ([]Shop, error) {
	return s.repo.List(ctx)
}

// Delete removes a shop. Rejected while any of the shop's stock positions
// still holds quantity; removing a shop must not orphan stock.
func (s *Service) Delete(ctx context.Context, shopID id.ID) error {
	if _, err := s.repo.GetByID(ctx, shopID); err != nil {
		return err
	}

	positions, err := s.positions.ListPositionsByShop(ctx, shopID)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}
	for _, p := range positions {
		if p.QuantityOnHand != 0 {
			return apperror.NewBusinessRule("shop still holds stock and cannot be deleted").
				WithDetail("shop_id", shopID).
				WithDetail("product_id", p.ProductID).
				WithDetail("quantity_on_hand", p.QuantityOnHand)
		}
	}

	return s.repo.Delete(ctx, shopID)
}
