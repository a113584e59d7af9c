package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/tx"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/pkg/logger"
)

// Service runs the two-phase transfer workflow: a request freezes the
// source cost, completion moves the stock.
type Service struct {
	repo      Repository
	inventory *inventory.Service
	txManager tx.Manager
}

// NewService creates a new transfer service.
func NewService(repo Repository, inv *inventory.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		inventory: inv,
		txManager: txManager,
	}
}

// Create records a pending transfer request. The source shop must hold the
// requested quantity right now, and its current average landing cost is
// frozen onto the transfer. Stock does not move yet.
func (s *Service) Create(ctx context.Context, t *Transfer) error {
	if err := t.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		pos, err := s.inventory.Position(ctx, t.FromShopID, t.ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewInsufficientStock(
					t.FromShopID.String(), t.ProductID.String(), t.Quantity, 0)
			}
			return err
		}
		if pos.QuantityOnHand < t.Quantity {
			return apperror.NewInsufficientStock(
				t.FromShopID.String(), t.ProductID.String(), t.Quantity, pos.QuantityOnHand)
		}

		t.ID = id.New()
		t.ReferenceCode = NewReferenceCode()
		t.Status = StatusPending
		t.CreatedAt = time.Now().UTC()

		cost := pos.AvgLandingCost()
		total := cost.MulInt(t.Quantity)
		t.UnitCostUSD = cost.USD
		t.UnitCostZWL = cost.ZWL
		t.TotalCostUSD = total.USD
		t.TotalCostZWL = total.ZWL

		return s.repo.Create(ctx, t)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transfer requested",
		"transfer_id", t.ID,
		"reference", t.ReferenceCode,
		"from_shop", t.FromShopID,
		"to_shop", t.ToShopID,
		"product_id", t.ProductID,
		"quantity", t.Quantity,
	)
	return nil
}

// Complete moves the stock: the source shop is deducted at its current
// average, the destination shop lands the quantity at the cost frozen when
// the transfer was requested. Sufficiency is re-checked under lock; if the
// source can no longer cover the quantity the transfer stays pending and
// nothing moves.
func (s *Service) Complete(ctx context.Context, transferID id.ID, approvedBy id.ID) (*Transfer, error) {
	var completed *Transfer
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetByIDForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if err := t.CanModify(); err != nil {
			return err
		}

		if _, err := s.inventory.Decrease(ctx, t.FromShopID, t.ProductID,
			t.Quantity, inventory.KindTransferOut,
			"Transfer to another shop", t.ReferenceCode); err != nil {
			return err
		}

		if _, err := s.inventory.Increase(ctx, t.ToShopID, t.ProductID,
			t.Quantity, t.UnitCost(), inventory.KindTransferIn,
			"Transfer from another shop", t.ReferenceCode); err != nil {
			return err
		}

		now := time.Now().UTC()
		t.Status = StatusCompleted
		t.CompletedAt = &now
		t.ApprovedBy = &approvedBy

		if err := s.repo.Update(ctx, t); err != nil {
			return fmt.Errorf("update transfer: %w", err)
		}

		completed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer completed",
		"transfer_id", transferID,
		"reference", completed.ReferenceCode,
		"approved_by", approvedBy,
	)
	return completed, nil
}

// Cancel marks a pending transfer cancelled. Completed transfers have
// already moved stock and cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, transferID id.ID, actorID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetByIDForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if err := t.CanModify(); err != nil {
			return err
		}
		t.Status = StatusCancelled
		return s.repo.Update(ctx, t)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transfer cancelled", "transfer_id", transferID, "actor_id", actorID)
	return nil
}

// Delete removes a transfer record. Completed transfers back two ledger
// entries and stay.
func (s *Service) Delete(ctx context.Context, transferID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetByIDForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if t.Status == StatusCompleted {
			return apperror.NewBusinessRule("completed transfers cannot be deleted").
				WithDetail("transfer_id", transferID).
				WithDetail("reference", t.ReferenceCode)
		}
		return s.repo.Delete(ctx, transferID)
	})
}

// GetByID returns one transfer.
func (s *Service) GetByID(ctx context.Context, transferID id.ID) (*Transfer, error) {
	return s.repo.GetByID(ctx, transferID)
}

// List returns all transfers.
func (s *Service) List(ctx context.Context) ([]Transfer, error) {
	return s.repo.List(ctx)
}

// ListByShop returns transfers touching a shop on either side.
func (s *Service) ListByShop(ctx context.Context, shopID id.ID) ([]Transfer, error) {
	return s.repo.ListByShop(ctx, shopID)
}

// ListByStatus returns transfers in one lifecycle state.
func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Transfer, error) {
	return s.repo.ListByStatus(ctx, status)
}
