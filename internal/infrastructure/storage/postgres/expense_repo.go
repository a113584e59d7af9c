package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/expense"
)

const expensesTable = "expenses"

var expenseColumns = []string{
	"id", "type", "purchase_order_id", "shop_id",
	"amount_usd", "amount_zwl",
	"category", "description", "recorded_by", "date",
}

// Compile-time check that ExpenseRepo implements expense.Repository.
var _ expense.Repository = (*ExpenseRepo)(nil)

// ExpenseRepo implements expense.Repository on PostgreSQL.
type ExpenseRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txManager *TxManager) *ExpenseRepo {
	return &ExpenseRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ExpenseRepo) Create(ctx context.Context, e *expense.Expense) error {
	q := r.builder.Insert(expensesTable).
		Columns(expenseColumns...).
		Values(
			e.ID, e.Type, e.PurchaseOrderID, e.ShopID,
			e.AmountUSD, e.AmountZWL,
			e.Category, e.Description, e.RecordedBy, e.Date,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) Update(ctx context.Context, e *expense.Expense) error {
	q := r.builder.Update(expensesTable).
		Set("type", e.Type).
		Set("purchase_order_id", e.PurchaseOrderID).
		Set("shop_id", e.ShopID).
		Set("amount_usd", e.AmountUSD).
		Set("amount_zwl", e.AmountZWL).
		Set("category", e.Category).
		Set("description", e.Description).
		Set("date", e.Date).
		Where(squirrel.Eq{"id": e.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("expense", e.ID)
	}
	return nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, expenseID id.ID) (*expense.Expense, error) {
	q := r.builder.Select(expenseColumns...).
		From(expensesTable).
		Where(squirrel.Eq{"id": expenseID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e expense.Expense
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("expense", expenseID)
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

func (r *ExpenseRepo) ListByPurchaseOrder(ctx context.Context, orderID id.ID) ([]expense.Expense, error) {
	q := r.builder.Select(expenseColumns...).
		From(expensesTable).
		Where(squirrel.Eq{"purchase_order_id": orderID}).
		OrderBy("date")
	return r.selectExpenses(ctx, q)
}

func (r *ExpenseRepo) ListByShop(ctx context.Context, shopID id.ID) ([]expense.Expense, error) {
	q := r.builder.Select(expenseColumns...).
		From(expensesTable).
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("date DESC")
	return r.selectExpenses(ctx, q)
}

func (r *ExpenseRepo) List(ctx context.Context) ([]expense.Expense, error) {
	q := r.builder.Select(expenseColumns...).
		From(expensesTable).
		OrderBy("date DESC")
	return r.selectExpenses(ctx, q)
}

func (r *ExpenseRepo) selectExpenses(ctx context.Context, q squirrel.SelectBuilder) ([]expense.Expense, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var expenses []expense.Expense
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &expenses, sql, args...); err != nil {
		return nil, fmt.Errorf("select expenses: %w", err)
	}
	return expenses, nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, expenseID id.ID) error {
	q := r.builder.Delete(expensesTable).Where(squirrel.Eq{"id": expenseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("expense", expenseID)
	}
	return nil
}
