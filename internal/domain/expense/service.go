package expense

import (
	"context"
	"fmt"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
	"github.com/tentenpanashe01/retail-backend/pkg/logger"
)

// Service provides business operations for expenses.
type Service struct {
	repo Repository
}

// NewService creates a new expense service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a new expense.
func (s *Service) Create(ctx context.Context, e *Expense) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	logger.Info(ctx, "expense recorded",
		"id", e.ID,
		"type", e.Type,
		"amount_usd", e.AmountUSD,
	)
	return nil
}

// Update changes an expense record.
func (s *Service) Update(ctx context.Context, e *Expense) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, e)
}

// GetByID retrieves one expense.
func (s *Service) GetByID(ctx context.Context, expenseID id.ID) (*Expense, error) {
	return s.repo.GetByID(ctx, expenseID)
}

// ListByPurchaseOrder returns the expenses linked to one purchase order.
func (s *Service) ListByPurchaseOrder(ctx context.Context, orderID id.ID) ([]Expense, error) {
	return s.repo.ListByPurchaseOrder(ctx, orderID)
}

// ListByShop returns a shop's operational expenses.
func (s *Service) ListByShop(ctx context.Context, shopID id.ID) ([]Expense, error) {
	return s.repo.ListByShop(ctx, shopID)
}

// List returns all expenses.
func (s *Service) List(ctx context.Context) ([]Expense, error) {
	return s.repo.List(ctx)
}

// Delete removes an expense record.
func (s *Service) Delete(ctx context.Context, expenseID id.ID) error {
	if _, err := s.repo.GetByID(ctx, expenseID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, expenseID)
}

// TotalForOrder sums both currency tracks of an order's linked expenses.
func (s *Service) TotalForOrder(ctx context.Context, orderID id.ID) (types.Money, error) {
	expenses, err := s.repo.ListByPurchaseOrder(ctx, orderID)
	if err != nil {
		return types.ZeroMoney(), err
	}

	total := types.ZeroMoney()
	for _, e := range expenses {
		total = total.Add(e.Amount())
	}
	return total, nil
}
