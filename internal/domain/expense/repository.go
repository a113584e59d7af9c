package expense

import (
	"context"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// Repository defines storage operations for expenses.
type Repository interface {
	Create(ctx context.Context, e *Expense) error
	Update(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, expenseID id.ID) (*Expense, error)
	ListByPurchaseOrder(ctx context.Context, orderID id.ID) ([]Expense, error)
	ListByShop(ctx context.Context, shopID id.ID) ([]Expense, error)
	List(ctx context.Context) ([]Expense, error)
	Delete(ctx context.Context, expenseID id.ID) error
}
