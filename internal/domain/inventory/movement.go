package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
)

// MovementKind classifies a stock movement.
type MovementKind string

const (
	KindReceipt     MovementKind = "RECEIPT"
	KindSale        MovementKind = "SALE"
	KindTransferIn  MovementKind = "TRANSFER_IN"
	KindTransferOut MovementKind = "TRANSFER_OUT"
	KindAdjustment  MovementKind = "ADJUSTMENT"
)

// StockMovement is one entry in the append-only movement ledger. Movements
// are immutable once written; the only way to remove one is the explicit
// administrative correction, which does not touch the stock position.
type StockMovement struct {
	ID        id.ID `db:"id" json:"id"`
	ShopID    id.ID `db:"shop_id" json:"shopId"`
	ProductID id.ID `db:"product_id" json:"productId"`

	// QuantityDelta is signed: positive increases stock, negative decreases.
	QuantityDelta int64 `db:"quantity_delta" json:"quantityDelta"`

	Kind MovementKind `db:"kind" json:"kind"`

	// Cost basis of this specific movement, frozen at write time.
	// This is the movement's own cost snapshot, not the running average.
	UnitCostUSD  decimal.Decimal `db:"unit_cost_usd" json:"unitCostUsd"`
	UnitCostZWL  decimal.Decimal `db:"unit_cost_zwl" json:"unitCostZwl"`
	TotalCostUSD decimal.Decimal `db:"total_cost_usd" json:"totalCostUsd"`
	TotalCostZWL decimal.Decimal `db:"total_cost_zwl" json:"totalCostZwl"`

	// Reason is free text; ReferenceID correlates the movement to the
	// originating workflow (sale id, transfer reference, order id).
	Reason      string `db:"reason" json:"reason"`
	ReferenceID string `db:"reference_id" json:"referenceId"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a ledger entry with the total cost derived from
// the unit cost and the absolute quantity moved.
func NewStockMovement(shopID, productID id.ID, delta int64, kind MovementKind, unitCost types.Money, reason, referenceID string) StockMovement {
	qty := delta
	if qty < 0 {
		qty = -qty
	}
	total := unitCost.MulInt(qty)
	return StockMovement{
		ID:            id.New(),
		ShopID:        shopID,
		ProductID:     productID,
		QuantityDelta: delta,
		Kind:          kind,
		UnitCostUSD:   unitCost.USD,
		UnitCostZWL:   unitCost.ZWL,
		TotalCostUSD:  total.USD,
		TotalCostZWL:  total.ZWL,
		Reason:        reason,
		ReferenceID:   referenceID,
		CreatedAt:     time.Now().UTC(),
	}
}

// UnitCost returns both currency tracks of the movement's unit cost.
func (m *StockMovement) UnitCost() types.Money {
	return types.NewMoney(m.UnitCostUSD, m.UnitCostZWL)
}

// TotalCost returns both currency tracks of the movement's total cost.
func (m *StockMovement) TotalCost() types.Money {
	return types.NewMoney(m.TotalCostUSD, m.TotalCostZWL)
}
