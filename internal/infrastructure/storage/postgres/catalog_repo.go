package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/product"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/shop"
)

const (
	shopsTable    = "shops"
	productsTable = "products"
)

// Compile-time interface checks.
var (
	_ shop.Repository    = (*ShopRepo)(nil)
	_ product.Repository = (*ProductRepo)(nil)
)

// ShopRepo implements shop.Repository on PostgreSQL.
type ShopRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewShopRepo creates a new shop repository.
func NewShopRepo(txManager *TxManager) *ShopRepo {
	return &ShopRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var shopColumns = []string{"id", "name", "location", "contact_number", "manager_name", "created_at"}

func (r *ShopRepo) Create(ctx context.Context, s *shop.Shop) error {
	q := r.builder.Insert(shopsTable).
		Columns(shopColumns...).
		Values(s.ID, s.Name, s.Location, s.ContactNumber, s.ManagerName, s.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (r *ShopRepo) Update(ctx context.Context, s *shop.Shop) error {
	q := r.builder.Update(shopsTable).
		Set("name", s.Name).
		Set("location", s.Location).
		Set("contact_number", s.ContactNumber).
		Set("manager_name", s.ManagerName).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("shop", s.ID)
	}
	return nil
}

func (r *ShopRepo) GetByID(ctx context.Context, shopID id.ID) (*shop.Shop, error) {
	q := r.builder.Select(shopColumns...).
		From(shopsTable).
		Where(squirrel.Eq{"id": shopID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s shop.Shop
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shop", shopID)
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return &s, nil
}

func (r *ShopRepo) List(ctx context.Context) ([]shop.Shop, error) {
	q := r.builder.Select(shopColumns...).
		From(shopsTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var shops []shop.Shop
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &shops, sql, args...); err != nil {
		return nil, fmt.Errorf("select shops: %w", err)
	}
	return shops, nil
}

func (r *ShopRepo) Delete(ctx context.Context, shopID id.ID) error {
	q := r.builder.Delete(shopsTable).Where(squirrel.Eq{"id": shopID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("shop", shopID)
	}
	return nil
}

// ProductRepo implements product.Repository on PostgreSQL.
type ProductRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var productColumns = []string{
	"id", "name", "category", "unit", "reorder_level",
	"selling_price_usd", "selling_price_zwl",
	"created_at", "updated_at",
}

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder.Insert(productsTable).
		Columns(productColumns...).
		Values(
			p.ID, p.Name, p.Category, p.Unit, p.ReorderLevel,
			p.SellingPriceUSD, p.SellingPriceZWL,
			p.CreatedAt, p.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder.Update(productsTable).
		Set("name", p.Name).
		Set("category", p.Category).
		Set("unit", p.Unit).
		Set("reorder_level", p.ReorderLevel).
		Set("selling_price_usd", p.SellingPriceUSD).
		Set("selling_price_zwl", p.SellingPriceZWL).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []product.Product
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return products, nil
}

func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.builder.Delete(productsTable).Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}
	return nil
}
