package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/purchase"
)

const (
	purchaseOrdersTable     = "purchase_orders"
	purchaseOrderLinesTable = "purchase_order_lines"
)

var orderColumns = []string{
	"id", "supplier_name", "shop_id", "status", "order_date", "received_date",
	"total_cost_usd", "total_cost_zwl", "expenses_usd", "expenses_zwl",
	"created_by",
}

var orderLineColumns = []string{
	"id", "order_id", "product_id", "quantity",
	"unit_price_usd", "unit_price_zwl", "total_cost_usd", "total_cost_zwl",
}

// Compile-time check that PurchaseRepo implements purchase.Repository.
var _ purchase.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo implements purchase.Repository on PostgreSQL.
type PurchaseRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewPurchaseRepo creates a new purchase order repository.
func NewPurchaseRepo(txManager *TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores the order and all its lines.
func (r *PurchaseRepo) Create(ctx context.Context, order *purchase.Order) error {
	q := r.builder.Insert(purchaseOrdersTable).
		Columns(orderColumns...).
		Values(
			order.ID, order.SupplierName, order.ShopID, order.Status,
			order.OrderDate, order.ReceivedDate,
			order.TotalCostUSD, order.TotalCostZWL,
			order.ExpensesUSD, order.ExpensesZWL,
			order.CreatedBy,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return r.insertLines(ctx, order.Lines)
}

// Update rewrites the order header and replaces its lines.
func (r *PurchaseRepo) Update(ctx context.Context, order *purchase.Order) error {
	q := r.builder.Update(purchaseOrdersTable).
		Set("supplier_name", order.SupplierName).
		Set("shop_id", order.ShopID).
		Set("status", order.Status).
		Set("received_date", order.ReceivedDate).
		Set("total_cost_usd", order.TotalCostUSD).
		Set("total_cost_zwl", order.TotalCostZWL).
		Set("expenses_usd", order.ExpensesUSD).
		Set("expenses_zwl", order.ExpensesZWL).
		Where(squirrel.Eq{"id": order.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase order", order.ID)
	}

	del := r.builder.Delete(purchaseOrderLinesTable).
		Where(squirrel.Eq{"order_id": order.ID})
	sql, args, err = del.ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	return r.insertLines(ctx, order.Lines)
}

func (r *PurchaseRepo) insertLines(ctx context.Context, lines []purchase.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.builder.Insert(purchaseOrderLinesTable).Columns(orderLineColumns...)
	for _, l := range lines {
		q = q.Values(
			l.ID, l.OrderID, l.ProductID, l.Quantity,
			l.UnitPriceUSD, l.UnitPriceZWL, l.TotalCostUSD, l.TotalCostZWL,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

// GetByID returns the order with lines loaded.
func (r *PurchaseRepo) GetByID(ctx context.Context, orderID id.ID) (*purchase.Order, error) {
	return r.getOrder(ctx, orderID, false)
}

// GetByIDForUpdate returns the order with lines loaded under a row lock.
func (r *PurchaseRepo) GetByIDForUpdate(ctx context.Context, orderID id.ID) (*purchase.Order, error) {
	return r.getOrder(ctx, orderID, true)
}

func (r *PurchaseRepo) getOrder(ctx context.Context, orderID id.ID, forUpdate bool) (*purchase.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(purchaseOrdersTable).
		Where(squirrel.Eq{"id": orderID}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var order purchase.Order
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase order", orderID)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	lines, err := r.linesFor(ctx, []id.ID{orderID})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[orderID]
	if order.Lines == nil {
		order.Lines = []purchase.OrderLine{}
	}

	return &order, nil
}

// List returns all orders, newest first.
func (r *PurchaseRepo) List(ctx context.Context) ([]purchase.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(purchaseOrdersTable).
		OrderBy("order_date DESC")
	return r.selectOrders(ctx, q)
}

// ListByShop returns a shop's orders, newest first.
func (r *PurchaseRepo) ListByShop(ctx context.Context, shopID id.ID) ([]purchase.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(purchaseOrdersTable).
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("order_date DESC")
	return r.selectOrders(ctx, q)
}

// ListByStatus returns orders in the given state, newest first.
func (r *PurchaseRepo) ListByStatus(ctx context.Context, status purchase.Status) ([]purchase.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(purchaseOrdersTable).
		Where(squirrel.Eq{"status": status}).
		OrderBy("order_date DESC")
	return r.selectOrders(ctx, q)
}

func (r *PurchaseRepo) selectOrders(ctx context.Context, q squirrel.SelectBuilder) ([]purchase.Order, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var orders []purchase.Order
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]id.ID, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
		if orders[i].Lines == nil {
			orders[i].Lines = []purchase.OrderLine{}
		}
	}

	return orders, nil
}

func (r *PurchaseRepo) linesFor(ctx context.Context, orderIDs []id.ID) (map[id.ID][]purchase.OrderLine, error) {
	q := r.builder.Select(orderLineColumns...).
		From(purchaseOrderLinesTable).
		Where(squirrel.Eq{"order_id": orderIDs}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var lines []purchase.OrderLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select lines: %w", err)
	}

	byOrder := make(map[id.ID][]purchase.OrderLine, len(orderIDs))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}
	return byOrder, nil
}

// Delete removes the order and its lines.
func (r *PurchaseRepo) Delete(ctx context.Context, orderID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	del := r.builder.Delete(purchaseOrderLinesTable).
		Where(squirrel.Eq{"order_id": orderID})
	sql, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	del = r.builder.Delete(purchaseOrdersTable).
		Where(squirrel.Eq{"id": orderID})
	sql, args, err = del.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase order", orderID)
	}

	return nil
}
