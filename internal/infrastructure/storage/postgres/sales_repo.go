package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/sales"
)

const (
	salesTable     = "sales"
	saleLinesTable = "sale_lines"
)

var saleColumns = []string{
	"id", "shop_id", "cashier_id", "sale_date", "payment_method",
	"total_amount_usd", "total_amount_zwl", "total_profit_usd", "total_profit_zwl",
}

var saleLineColumns = []string{
	"id", "sale_id", "product_id", "quantity",
	"selling_price_usd", "selling_price_zwl",
	"cost_price_usd", "cost_price_zwl",
	"total_usd", "total_zwl", "profit_usd", "profit_zwl",
}

// Compile-time check that SalesRepo implements sales.Repository.
var _ sales.Repository = (*SalesRepo)(nil)

// SalesRepo implements sales.Repository on PostgreSQL.
type SalesRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewSalesRepo creates a new sales repository.
func NewSalesRepo(txManager *TxManager) *SalesRepo {
	return &SalesRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores the sale header and all its lines.
func (r *SalesRepo) Create(ctx context.Context, sale *sales.Sale) error {
	q := r.builder.Insert(salesTable).
		Columns(saleColumns...).
		Values(
			sale.ID, sale.ShopID, sale.CashierID, sale.SaleDate, sale.PaymentMethod,
			sale.TotalAmountUSD, sale.TotalAmountZWL,
			sale.TotalProfitUSD, sale.TotalProfitZWL,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	if len(sale.Lines) == 0 {
		return nil
	}

	lq := r.builder.Insert(saleLinesTable).Columns(saleLineColumns...)
	for _, l := range sale.Lines {
		lq = lq.Values(
			l.ID, l.SaleID, l.ProductID, l.Quantity,
			l.SellingPriceUSD, l.SellingPriceZWL,
			l.CostPriceUSD, l.CostPriceZWL,
			l.TotalUSD, l.TotalZWL, l.ProfitUSD, l.ProfitZWL,
		)
	}

	sql, args, err = lq.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale lines: %w", err)
	}

	return nil
}

// UpdateTotals rewrites the header aggregates.
func (r *SalesRepo) UpdateTotals(ctx context.Context, sale *sales.Sale) error {
	q := r.builder.Update(salesTable).
		Set("total_amount_usd", sale.TotalAmountUSD).
		Set("total_amount_zwl", sale.TotalAmountZWL).
		Set("total_profit_usd", sale.TotalProfitUSD).
		Set("total_profit_zwl", sale.TotalProfitZWL).
		Where(squirrel.Eq{"id": sale.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", sale.ID)
	}
	return nil
}

// GetByID returns the sale with lines loaded.
func (r *SalesRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	return r.getSale(ctx, saleID, false)
}

// GetByIDForUpdate returns the sale with lines loaded under a row lock.
func (r *SalesRepo) GetByIDForUpdate(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	return r.getSale(ctx, saleID, true)
}

func (r *SalesRepo) getSale(ctx context.Context, saleID id.ID, forUpdate bool) (*sales.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sale sales.Sale
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &sale, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID)
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	lines, err := r.linesFor(ctx, []id.ID{saleID})
	if err != nil {
		return nil, err
	}
	sale.Lines = lines[saleID]
	if sale.Lines == nil {
		sale.Lines = []sales.SaleLine{}
	}

	return &sale, nil
}

// ListByShop returns a shop's sales, newest first.
func (r *SalesRepo) ListByShop(ctx context.Context, shopID id.ID, filter sales.Filter) ([]sales.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"shop_id": shopID})

	if filter.CashierID != nil {
		q = q.Where(squirrel.Eq{"cashier_id": *filter.CashierID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"sale_date": *filter.ToDate})
	}
	q = q.OrderBy("sale_date DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var results []sales.Sale
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &results, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}
	if len(results) == 0 {
		return results, nil
	}

	ids := make([]id.ID, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Lines = lines[results[i].ID]
		if results[i].Lines == nil {
			results[i].Lines = []sales.SaleLine{}
		}
	}

	return results, nil
}

func (r *SalesRepo) linesFor(ctx context.Context, saleIDs []id.ID) (map[id.ID][]sales.SaleLine, error) {
	q := r.builder.Select(saleLineColumns...).
		From(saleLinesTable).
		Where(squirrel.Eq{"sale_id": saleIDs}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var lines []sales.SaleLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select sale lines: %w", err)
	}

	bySale := make(map[id.ID][]sales.SaleLine, len(saleIDs))
	for _, l := range lines {
		bySale[l.SaleID] = append(bySale[l.SaleID], l)
	}
	return bySale, nil
}

// SaveLine inserts or rewrites one sale line.
func (r *SalesRepo) SaveLine(ctx context.Context, line *sales.SaleLine) error {
	q := r.builder.Insert(saleLinesTable).
		Columns(saleLineColumns...).
		Values(
			line.ID, line.SaleID, line.ProductID, line.Quantity,
			line.SellingPriceUSD, line.SellingPriceZWL,
			line.CostPriceUSD, line.CostPriceZWL,
			line.TotalUSD, line.TotalZWL, line.ProfitUSD, line.ProfitZWL,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			total_usd = EXCLUDED.total_usd,
			total_zwl = EXCLUDED.total_zwl,
			profit_usd = EXCLUDED.profit_usd,
			profit_zwl = EXCLUDED.profit_zwl`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("save sale line: %w", err)
	}
	return nil
}

// DeleteLine removes one sale line.
func (r *SalesRepo) DeleteLine(ctx context.Context, lineID id.ID) error {
	q := r.builder.Delete(saleLinesTable).Where(squirrel.Eq{"id": lineID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete sale line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale line", lineID)
	}
	return nil
}
