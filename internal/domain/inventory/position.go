// Package inventory provides the stock position store, the movement ledger
// and the costing engine. Every quantity or cost change in the system goes
// through this package; workflows never mutate positions directly.
package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
)

// StockPosition holds the on-hand quantity and weighted-average landing
// cost for one product at one shop. There is exactly one row per
// (shop, product) pair; the uniqueness is enforced at the storage layer.
type StockPosition struct {
	ShopID    id.ID `db:"shop_id" json:"shopId"`
	ProductID id.ID `db:"product_id" json:"productId"`

	// QuantityOnHand never goes negative after a committed operation.
	QuantityOnHand int64 `db:"quantity_on_hand" json:"quantityOnHand"`

	// Weighted-average landing cost per unit, tracked independently
	// per currency.
	AvgLandingCostUSD decimal.Decimal `db:"avg_landing_cost_usd" json:"avgLandingCostUsd"`
	AvgLandingCostZWL decimal.Decimal `db:"avg_landing_cost_zwl" json:"avgLandingCostZwl"`

	// Shop-specific selling price override. Nil means the product's
	// catalog price applies.
	SellingPriceUSD *decimal.Decimal `db:"selling_price_usd" json:"sellingPriceUsd,omitempty"`
	SellingPriceZWL *decimal.Decimal `db:"selling_price_zwl" json:"sellingPriceZwl,omitempty"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewStockPosition creates a zero-valued position for a (shop, product)
// pair. Positions are created lazily the first time a movement touches
// the pair.
func NewStockPosition(shopID, productID id.ID) *StockPosition {
	return &StockPosition{
		ShopID:            shopID,
		ProductID:         productID,
		QuantityOnHand:    0,
		AvgLandingCostUSD: decimal.Zero,
		AvgLandingCostZWL: decimal.Zero,
	}
}

// AvgLandingCost returns both currency tracks of the average cost.
func (p *StockPosition) AvgLandingCost() types.Money {
	return types.NewMoney(p.AvgLandingCostUSD, p.AvgLandingCostZWL)
}

// SetAvgLandingCost writes both currency tracks of the average cost.
func (p *StockPosition) SetAvgLandingCost(m types.Money) {
	p.AvgLandingCostUSD = m.USD
	p.AvgLandingCostZWL = m.ZWL
}

// SellingPriceOverride returns the shop-specific selling price and whether
// one is set. Both tracks are set together or not at all.
func (p *StockPosition) SellingPriceOverride() (types.Money, bool) {
	if p.SellingPriceUSD == nil || p.SellingPriceZWL == nil {
		return types.ZeroMoney(), false
	}
	return types.NewMoney(*p.SellingPriceUSD, *p.SellingPriceZWL), true
}

// SetSellingPriceOverride sets the shop-specific selling price.
func (p *StockPosition) SetSellingPriceOverride(m types.Money) {
	usd, zwl := m.USD, m.ZWL
	p.SellingPriceUSD = &usd
	p.SellingPriceZWL = &zwl
}
