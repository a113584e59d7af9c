package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/transfer"
)

const transfersTable = "stock_transfers"

var transferColumns = []string{
	"id", "reference_code", "from_shop_id", "to_shop_id", "product_id",
	"quantity", "status",
	"unit_cost_usd", "unit_cost_zwl", "total_cost_usd", "total_cost_zwl",
	"remarks", "requested_by", "approved_by",
	"created_at", "completed_at",
}

// Compile-time check that TransferRepo implements transfer.Repository.
var _ transfer.Repository = (*TransferRepo)(nil)

// TransferRepo implements transfer.Repository on PostgreSQL.
type TransferRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewTransferRepo creates a new transfer repository.
func NewTransferRepo(txManager *TxManager) *TransferRepo {
	return &TransferRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *TransferRepo) Create(ctx context.Context, t *transfer.Transfer) error {
	q := r.builder.Insert(transfersTable).
		Columns(transferColumns...).
		Values(
			t.ID, t.ReferenceCode, t.FromShopID, t.ToShopID, t.ProductID,
			t.Quantity, t.Status,
			t.UnitCostUSD, t.UnitCostZWL, t.TotalCostUSD, t.TotalCostZWL,
			t.Remarks, t.RequestedBy, t.ApprovedBy,
			t.CreatedAt, t.CompletedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (r *TransferRepo) Update(ctx context.Context, t *transfer.Transfer) error {
	q := r.builder.Update(transfersTable).
		Set("status", t.Status).
		Set("remarks", t.Remarks).
		Set("approved_by", t.ApprovedBy).
		Set("completed_at", t.CompletedAt).
		Where(squirrel.Eq{"id": t.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("transfer", t.ID)
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, transferID id.ID) (*transfer.Transfer, error) {
	return r.getTransfer(ctx, transferID, false)
}

func (r *TransferRepo) GetByIDForUpdate(ctx context.Context, transferID id.ID) (*transfer.Transfer, error) {
	return r.getTransfer(ctx, transferID, true)
}

func (r *TransferRepo) getTransfer(ctx context.Context, transferID id.ID, forUpdate bool) (*transfer.Transfer, error) {
	q := r.builder.Select(transferColumns...).
		From(transfersTable).
		Where(squirrel.Eq{"id": transferID}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t transfer.Transfer
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transfer", transferID)
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

func (r *TransferRepo) List(ctx context.Context) ([]transfer.Transfer, error) {
	q := r.builder.Select(transferColumns...).
		From(transfersTable).
		OrderBy("created_at DESC")
	return r.selectTransfers(ctx, q)
}

func (r *TransferRepo) ListByShop(ctx context.Context, shopID id.ID) ([]transfer.Transfer, error) {
	q := r.builder.Select(transferColumns...).
		From(transfersTable).
		Where(squirrel.Or{
			squirrel.Eq{"from_shop_id": shopID},
			squirrel.Eq{"to_shop_id": shopID},
		}).
		OrderBy("created_at DESC")
	return r.selectTransfers(ctx, q)
}

func (r *TransferRepo) ListByStatus(ctx context.Context, status transfer.Status) ([]transfer.Transfer, error) {
	q := r.builder.Select(transferColumns...).
		From(transfersTable).
		Where(squirrel.Eq{"status": status}).
		OrderBy("created_at DESC")
	return r.selectTransfers(ctx, q)
}

func (r *TransferRepo) selectTransfers(ctx context.Context, q squirrel.SelectBuilder) ([]transfer.Transfer, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var transfers []transfer.Transfer
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &transfers, sql, args...); err != nil {
		return nil, fmt.Errorf("select transfers: %w", err)
	}
	return transfers, nil
}

func (r *TransferRepo) Delete(ctx context.Context, transferID id.ID) error {
	q := r.builder.Delete(transfersTable).Where(squirrel.Eq{"id": transferID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("transfer", transferID)
	}
	return nil
}
