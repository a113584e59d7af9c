package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
)

const (
	stockPositionsTable = "stock_positions"
	stockMovementsTable = "stock_movements"
)

var positionColumns = []string{
	"shop_id", "product_id", "quantity_on_hand",
	"avg_landing_cost_usd", "avg_landing_cost_zwl",
	"selling_price_usd", "selling_price_zwl",
	"updated_at",
}

var movementColumns = []string{
	"id", "shop_id", "product_id", "quantity_delta", "kind",
	"unit_cost_usd", "unit_cost_zwl", "total_cost_usd", "total_cost_zwl",
	"reason", "reference_id", "created_at",
}

// Compile-time check that InventoryRepo implements inventory.Repository.
var _ inventory.Repository = (*InventoryRepo)(nil)

// InventoryRepo implements inventory.Repository on PostgreSQL.
type InventoryRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txManager *TxManager) *InventoryRepo {
	return &InventoryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetPosition returns the position for a (shop, product) pair.
func (r *InventoryRepo) GetPosition(ctx context.Context, shopID, productID id.ID) (*inventory.StockPosition, error) {
	q := r.builder.Select(positionColumns...).
		From(stockPositionsTable).
		Where(squirrel.Eq{"shop_id": shopID, "product_id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var pos inventory.StockPosition
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &pos, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock position", shopID.String()+"/"+productID.String())
		}
		return nil, fmt.Errorf("get position: %w", err)
	}

	return &pos, nil
}

// GetPositionForUpdate returns the position with a pessimistic row lock.
// A pair no movement has touched yet is created as a zero-valued row first
// and then locked, so two concurrent first movements serialize on the same
// row instead of both computing from an unlocked zero snapshot.
func (r *InventoryRepo) GetPositionForUpdate(ctx context.Context, shopID, productID id.ID) (*inventory.StockPosition, error) {
	querier := r.txManager.GetQuerier(ctx)

	var pos inventory.StockPosition
	err := pgxscan.Get(ctx, querier, &pos, selectPositionForUpdateSQL, shopID, productID)
	if err == nil {
		return &pos, nil
	}
	if !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("get position for update: %w", err)
	}

	// Materialize the zero row; DO NOTHING makes the race with another
	// first movement lose harmlessly, and the re-select below blocks on
	// whichever transaction won.
	sql, args, err := r.zeroPositionInsert(shopID, productID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("insert zero position: %w", err)
	}

	if err := pgxscan.Get(ctx, querier, &pos, selectPositionForUpdateSQL, shopID, productID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewConcurrentModification("stock position", shopID.String()+"/"+productID.String())
		}
		return nil, fmt.Errorf("get position for update: %w", err)
	}

	return &pos, nil
}

const selectPositionForUpdateSQL = `
	SELECT shop_id, product_id, quantity_on_hand,
	       avg_landing_cost_usd, avg_landing_cost_zwl,
	       selling_price_usd, selling_price_zwl,
	       updated_at
	FROM stock_positions
	WHERE shop_id = $1 AND product_id = $2
	FOR UPDATE
`

func (r *InventoryRepo) zeroPositionInsert(shopID, productID id.ID) squirrel.InsertBuilder {
	zero := inventory.NewStockPosition(shopID, productID)
	return r.builder.Insert(stockPositionsTable).
		Columns(positionColumns...).
		Values(
			zero.ShopID, zero.ProductID, zero.QuantityOnHand,
			zero.AvgLandingCostUSD, zero.AvgLandingCostZWL,
			zero.SellingPriceUSD, zero.SellingPriceZWL,
			time.Now().UTC(),
		).
		Suffix("ON CONFLICT (shop_id, product_id) DO NOTHING")
}

// SavePosition upserts the position keyed on (shop_id, product_id).
func (r *InventoryRepo) SavePosition(ctx context.Context, pos *inventory.StockPosition) error {
	pos.UpdatedAt = time.Now().UTC()

	q := r.builder.Insert(stockPositionsTable).
		Columns(positionColumns...).
		Values(
			pos.ShopID, pos.ProductID, pos.QuantityOnHand,
			pos.AvgLandingCostUSD, pos.AvgLandingCostZWL,
			pos.SellingPriceUSD, pos.SellingPriceZWL,
			pos.UpdatedAt,
		).
		Suffix(`ON CONFLICT (shop_id, product_id) DO UPDATE SET
			quantity_on_hand = EXCLUDED.quantity_on_hand,
			avg_landing_cost_usd = EXCLUDED.avg_landing_cost_usd,
			avg_landing_cost_zwl = EXCLUDED.avg_landing_cost_zwl,
			selling_price_usd = EXCLUDED.selling_price_usd,
			selling_price_zwl = EXCLUDED.selling_price_zwl,
			updated_at = EXCLUDED.updated_at`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("save position: %w", err)
	}

	return nil
}

// ListPositionsByShop returns all positions for a shop.
func (r *InventoryRepo) ListPositionsByShop(ctx context.Context, shopID id.ID) ([]inventory.StockPosition, error) {
	q := r.builder.Select(positionColumns...).
		From(stockPositionsTable).
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("product_id")

	return r.selectPositions(ctx, q)
}

// ListPositionsByProduct returns positions for a product across shops.
func (r *InventoryRepo) ListPositionsByProduct(ctx context.Context, productID id.ID) ([]inventory.StockPosition, error) {
	q := r.builder.Select(positionColumns...).
		From(stockPositionsTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("shop_id")

	return r.selectPositions(ctx, q)
}

func (r *InventoryRepo) selectPositions(ctx context.Context, q squirrel.SelectBuilder) ([]inventory.StockPosition, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var positions []inventory.StockPosition
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &positions, sql, args...); err != nil {
		return nil, fmt.Errorf("select positions: %w", err)
	}
	return positions, nil
}

// AppendMovements batch inserts ledger entries.
func (r *InventoryRepo) AppendMovements(ctx context.Context, movements []inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
	for _, m := range movements {
		q = q.Values(
			m.ID, m.ShopID, m.ProductID, m.QuantityDelta, m.Kind,
			m.UnitCostUSD, m.UnitCostZWL, m.TotalCostUSD, m.TotalCostZWL,
			m.Reason, m.ReferenceID, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// GetMovement returns a single ledger entry.
func (r *InventoryRepo) GetMovement(ctx context.Context, movementID id.ID) (*inventory.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"id": movementID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m inventory.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock movement", movementID)
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}

	return &m, nil
}

// MovementsByShop returns ledger history for a shop.
func (r *InventoryRepo) MovementsByShop(ctx context.Context, shopID id.ID, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"shop_id": shopID})

	return r.selectMovements(ctx, applyMovementFilter(q, filter))
}

// MovementsByProduct returns ledger history for a product.
func (r *InventoryRepo) MovementsByProduct(ctx context.Context, productID id.ID, filter inventory.MovementFilter) ([]inventory.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"product_id": productID})

	return r.selectMovements(ctx, applyMovementFilter(q, filter))
}

// MovementsByReference returns the ledger entries for one workflow invocation.
func (r *InventoryRepo) MovementsByReference(ctx context.Context, referenceID string) ([]inventory.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"reference_id": referenceID}).
		OrderBy("created_at")

	return r.selectMovements(ctx, q)
}

func applyMovementFilter(q squirrel.SelectBuilder, filter inventory.MovementFilter) squirrel.SelectBuilder {
	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"shop_id": *filter.ShopID})
	}
	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}
	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}

func (r *InventoryRepo) selectMovements(ctx context.Context, q squirrel.SelectBuilder) ([]inventory.StockMovement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []inventory.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return movements, nil
}

// DeleteMovement removes a ledger entry without touching the position.
func (r *InventoryRepo) DeleteMovement(ctx context.Context, movementID id.ID) error {
	q := r.builder.Delete(stockMovementsTable).
		Where(squirrel.Eq{"id": movementID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("stock movement", movementID)
	}

	return nil
}
