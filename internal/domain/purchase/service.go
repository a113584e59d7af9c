package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/tx"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
	"github.com/tentenpanashe01/retail-backend/internal/domain/expense"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/pkg/logger"
)

// Service runs the purchase order lifecycle, ending in the receiving
// workflow that prorates expenses and lands stock into the order's shop.
type Service struct {
	repo      Repository
	inventory *inventory.Service
	expenses  *expense.Service
	txManager tx.Manager
}

// NewService creates a new purchase order service.
func NewService(repo Repository, inv *inventory.Service, exp *expense.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		inventory: inv,
		expenses:  exp,
		txManager: txManager,
	}
}

// Create stores a new pending order.
func (s *Service) Create(ctx context.Context, order *Order) error {
	if err := order.Validate(ctx); err != nil {
		return err
	}
	if order.Status == "" {
		order.Status = StatusPending
	}
	if order.Status != StatusPending {
		return apperror.NewValidation("new orders must be pending").
			WithDetail("status", string(order.Status))
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}

	logger.Info(ctx, "purchase order created",
		"order_id", order.ID,
		"shop_id", order.ShopID,
		"supplier", order.SupplierName,
		"lines", len(order.Lines),
	)
	return nil
}

// Update rewrites a pending order's header and lines. Orders that have been
// received or cancelled are immutable.
func (s *Service) Update(ctx context.Context, order *Order) error {
	if err := order.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if err := current.CanModify(); err != nil {
			return err
		}

		order.Status = current.Status
		order.OrderDate = current.OrderDate
		order.CreatedBy = current.CreatedBy
		return s.repo.Update(ctx, order)
	})
}

// GetByID returns an order with its lines.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// ListByShop returns a shop's orders.
func (s *Service) ListByShop(ctx context.Context, shopID id.ID) ([]Order, error) {
	return s.repo.ListByShop(ctx, shopID)
}

// ListByStatus returns orders in one lifecycle state.
func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	return s.repo.ListByStatus(ctx, status)
}

// Receive completes a pending order: linked expenses are prorated across
// the lines by line-cost share per currency, every line is landed into the
// shop's stock at its landed unit cost with a RECEIPT ledger entry, and the
// order is marked COMPLETED with its cost aggregates. The whole workflow is
// one transaction; any failure leaves stock and the order untouched.
//
// An order with no lines or no linked expenses cannot be received. Freight
// and duty are part of landed cost here, so receiving before the expenses
// are captured would understate every average cost it touches.
func (s *Service) Receive(ctx context.Context, orderID id.ID, actorID id.ID) (*Order, error) {
	var received *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.CanModify(); err != nil {
			return err
		}
		if len(order.Lines) == 0 {
			return apperror.NewBusinessRule("cannot receive an order with no lines").
				WithDetail("order_id", orderID)
		}

		expenses, err := s.expenses.ListByPurchaseOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if len(expenses) == 0 {
			return apperror.NewBusinessRule("cannot receive an order with no linked expenses").
				WithDetail("order_id", orderID)
		}

		totalExpense := types.ZeroMoney()
		for _, e := range expenses {
			totalExpense = totalExpense.Add(e.Amount())
		}

		prorationLines := make([]inventory.ProrationLine, len(order.Lines))
		for i, line := range order.Lines {
			prorationLines[i] = inventory.ProrationLine{
				Quantity:  line.Quantity,
				TotalCost: line.TotalCost(),
			}
		}
		landed, err := inventory.ProrateExpenses(prorationLines, totalExpense)
		if err != nil {
			return err
		}

		reference := "PO-" + orderID.String()
		lineTotal := types.ZeroMoney()
		for i, line := range order.Lines {
			if _, err := s.inventory.Increase(ctx, order.ShopID, line.ProductID,
				line.Quantity, landed[i], inventory.KindReceipt,
				"Purchase order received", reference); err != nil {
				return err
			}
			lineTotal = lineTotal.Add(line.TotalCost())
		}

		now := time.Now().UTC()
		order.Status = StatusCompleted
		order.ReceivedDate = &now
		order.TotalCostUSD = lineTotal.USD
		order.TotalCostZWL = lineTotal.ZWL
		order.ExpensesUSD = totalExpense.USD
		order.ExpensesZWL = totalExpense.ZWL

		if err := s.repo.Update(ctx, order); err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}

		received = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order received",
		"order_id", orderID,
		"shop_id", received.ShopID,
		"lines", len(received.Lines),
		"total_usd", received.TotalCostUSD,
		"expenses_usd", received.ExpensesUSD,
		"actor_id", actorID,
	)
	return received, nil
}

// Cancel marks a pending order cancelled. Completed orders cannot be
// cancelled; their stock has already landed.
func (s *Service) Cancel(ctx context.Context, orderID id.ID, actorID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.CanModify(); err != nil {
			return err
		}
		order.Status = StatusCancelled
		return s.repo.Update(ctx, order)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase order cancelled", "order_id", orderID, "actor_id", actorID)
	return nil
}

// Delete removes a pending order. Received orders are part of the cost
// record behind stock averages and stay.
func (s *Service) Delete(ctx context.Context, orderID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == StatusCompleted {
			return apperror.NewBusinessRule("completed purchase orders cannot be deleted").
				WithDetail("order_id", orderID)
		}
		return s.repo.Delete(ctx, orderID)
	})
}
