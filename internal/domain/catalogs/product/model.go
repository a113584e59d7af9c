// Package product provides the Product catalog: the global product list
// shared by every shop, including catalog selling prices per currency.
package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
)

// Product represents one catalog item.
type Product struct {
	ID       id.ID  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Category string `db:"category" json:"category,omitempty"`
	Unit     string `db:"unit" json:"unit,omitempty"`

	// ReorderLevel is the on-hand quantity below which the product should
	// be re-ordered.
	ReorderLevel int64 `db:"reorder_level" json:"reorderLevel"`

	// Catalog selling prices; a shop may shadow these with a position
	// override.
	SellingPriceUSD decimal.Decimal `db:"selling_price_usd" json:"sellingPriceUsd"`
	SellingPriceZWL decimal.Decimal `db:"selling_price_zwl" json:"sellingPriceZwl"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(name string, sellingPrice types.Money) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:              id.New(),
		Name:            name,
		SellingPriceUSD: sellingPrice.USD,
		SellingPriceZWL: sellingPrice.ZWL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// SellingPrice returns both currency tracks of the catalog price.
func (p *Product) SellingPrice() types.Money {
	return types.NewMoney(p.SellingPriceUSD, p.SellingPriceZWL)
}

// Validate checks required fields.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if p.SellingPrice().IsNegative() {
		return apperror.NewValidation("selling price must not be negative")
	}
	if p.ReorderLevel < 0 {
		return apperror.NewValidation("reorder level must not be negative")
	}
	return nil
}
