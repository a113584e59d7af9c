package inventory

import (
	"context"
	"fmt"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/tx"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
	"github.com/tentenpanashe01/retail-backend/pkg/logger"
)

// Service is the single authoritative mutation path for stock positions.
// The receiving, transfer and sale workflows call Increase and Decrease;
// nothing else writes quantities or average costs.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new inventory service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Increase adds qty units at unitCost to the (shop, product) position,
// blending the cost into the weighted average, and appends the paired
// ledger entry. Must be called inside the caller's transaction; the
// position row stays locked until that transaction commits.
func (s *Service) Increase(ctx context.Context, shopID, productID id.ID, qty int64, unitCost types.Money, kind MovementKind, reason, referenceID string) (*StockPosition, error) {
	pos, err := s.repo.GetPositionForUpdate(ctx, shopID, productID)
	if err != nil {
		return nil, fmt.Errorf("get position for update: %w", err)
	}

	if err := ApplyIncrease(pos, qty, unitCost); err != nil {
		return nil, err
	}

	if err := s.repo.SavePosition(ctx, pos); err != nil {
		return nil, fmt.Errorf("save position: %w", err)
	}

	movement := NewStockMovement(shopID, productID, qty, kind, unitCost, reason, referenceID)
	if err := s.repo.AppendMovements(ctx, []StockMovement{movement}); err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}

	return pos, nil
}

// Decrease deducts qty units from the (shop, product) position at the
// current average cost and appends the paired ledger entry. Returns the
// average cost at the moment of deduction, frozen for the caller's record.
// Fails with INSUFFICIENT_STOCK when the position cannot cover qty.
func (s *Service) Decrease(ctx context.Context, shopID, productID id.ID, qty int64, kind MovementKind, reason, referenceID string) (types.Money, error) {
	pos, err := s.repo.GetPositionForUpdate(ctx, shopID, productID)
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("get position for update: %w", err)
	}

	cost, err := ApplyDecrease(pos, qty)
	if err != nil {
		return types.ZeroMoney(), err
	}

	if err := s.repo.SavePosition(ctx, pos); err != nil {
		return types.ZeroMoney(), fmt.Errorf("save position: %w", err)
	}

	movement := NewStockMovement(shopID, productID, -qty, kind, cost, reason, referenceID)
	if err := s.repo.AppendMovements(ctx, []StockMovement{movement}); err != nil {
		return types.ZeroMoney(), fmt.Errorf("append movement: %w", err)
	}

	return cost, nil
}

// Adjust applies a manual stock correction. Positive delta increases the
// position (at newUnitCost when given, else at the current average);
// negative delta decreases it. When newUnitCost is given the averages are
// overwritten with it after the quantity change (manual revaluation).
// A delta that would drive the quantity negative is rejected.
func (s *Service) Adjust(ctx context.Context, shopID, productID id.ID, deltaQty int64, newUnitCost *types.Money, reason string, actorID id.ID) (*StockPosition, error) {
	if deltaQty == 0 {
		return nil, apperror.NewValidation("adjustment quantity must not be zero")
	}

	var result *StockPosition
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		pos, err := s.repo.GetPositionForUpdate(ctx, shopID, productID)
		if err != nil {
			return fmt.Errorf("get position for update: %w", err)
		}

		snapshot := pos.AvgLandingCost()
		if newUnitCost != nil {
			snapshot = *newUnitCost
		}

		if deltaQty > 0 {
			if err := ApplyIncrease(pos, deltaQty, snapshot); err != nil {
				return err
			}
		} else {
			if _, err := ApplyDecrease(pos, -deltaQty); err != nil {
				return err
			}
		}

		if newUnitCost != nil {
			pos.SetAvgLandingCost(*newUnitCost)
		}

		if err := s.repo.SavePosition(ctx, pos); err != nil {
			return fmt.Errorf("save position: %w", err)
		}

		movement := NewStockMovement(shopID, productID, deltaQty, KindAdjustment, snapshot, reason, "ADJ-"+actorID.String())
		if err := s.repo.AppendMovements(ctx, []StockMovement{movement}); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}

		result = pos
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock adjusted",
		"shop_id", shopID,
		"product_id", productID,
		"delta", deltaQty,
		"actor_id", actorID,
	)

	return result, nil
}

// SetSellingPrice stores a shop-specific selling price override on the
// position, shadowing the product's catalog price for that shop.
func (s *Service) SetSellingPrice(ctx context.Context, shopID, productID id.ID, price types.Money, actorID id.ID) (*StockPosition, error) {
	if price.IsNegative() {
		return nil, apperror.NewValidation("selling price must not be negative")
	}

	var result *StockPosition
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		pos, err := s.repo.GetPositionForUpdate(ctx, shopID, productID)
		if err != nil {
			return fmt.Errorf("get position for update: %w", err)
		}
		pos.SetSellingPriceOverride(price)
		if err := s.repo.SavePosition(ctx, pos); err != nil {
			return fmt.Errorf("save position: %w", err)
		}
		result = pos
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "selling price override set",
		"shop_id", shopID,
		"product_id", productID,
		"actor_id", actorID,
	)

	return result, nil
}

// Position returns the current position for a (shop, product) pair.
func (s *Service) Position(ctx context.Context, shopID, productID id.ID) (*StockPosition, error) {
	return s.repo.GetPosition(ctx, shopID, productID)
}

// PositionsByShop returns all positions for a shop.
func (s *Service) PositionsByShop(ctx context.Context, shopID id.ID) ([]StockPosition, error) {
	return s.repo.ListPositionsByShop(ctx, shopID)
}

// PositionsByProduct returns positions for a product across shops.
func (s *Service) PositionsByProduct(ctx context.Context, productID id.ID) ([]StockPosition, error) {
	return s.repo.ListPositionsByProduct(ctx, productID)
}

// MovementsByShop returns ledger history for a shop.
func (s *Service) MovementsByShop(ctx context.Context, shopID id.ID, filter MovementFilter) ([]StockMovement, error) {
	return s.repo.MovementsByShop(ctx, shopID, filter)
}

// MovementsByProduct returns ledger history for a product.
func (s *Service) MovementsByProduct(ctx context.Context, productID id.ID, filter MovementFilter) ([]StockMovement, error) {
	return s.repo.MovementsByProduct(ctx, productID, filter)
}

// MovementsByReference returns the ledger entries written by one
// originating workflow invocation.
func (s *Service) MovementsByReference(ctx context.Context, referenceID string) ([]StockMovement, error) {
	return s.repo.MovementsByReference(ctx, referenceID)
}

// DeleteMovement removes a single ledger entry as an administrative audit
// correction. The corresponding stock position is deliberately NOT reversed
// or re-validated; after this call the ledger sum for the pair no longer
// matches the position. This is an accepted, documented inconsistency.
func (s *Service) DeleteMovement(ctx context.Context, movementID id.ID, actorID id.ID) error {
	movement, err := s.repo.GetMovement(ctx, movementID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteMovement(ctx, movementID); err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}

	logger.Warn(ctx, "movement deleted without position reversal",
		"movement_id", movementID,
		"shop_id", movement.ShopID,
		"product_id", movement.ProductID,
		"quantity_delta", movement.QuantityDelta,
		"actor_id", actorID,
	)

	return nil
}

// VerifyLedger recomputes the signed delta sum for a (shop, product) pair
// and compares it with the stored position. Used by maintenance tooling to
// surface drift introduced by administrative ledger deletions.
func (s *Service) VerifyLedger(ctx context.Context, shopID, productID id.ID) (bool, error) {
	var consistent bool
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		pos, err := s.repo.GetPosition(ctx, shopID, productID)
		if err != nil {
			if apperror.IsNotFound(err) {
				consistent = true
				return nil
			}
			return err
		}

		movements, err := s.repo.MovementsByProduct(ctx, productID, MovementFilter{ShopID: &shopID})
		if err != nil {
			return err
		}

		var sum int64
		for _, m := range movements {
			sum += m.QuantityDelta
		}

		consistent = sum == pos.QuantityOnHand
		return nil
	})
	if err != nil {
		return false, err
	}
	return consistent, nil
}
