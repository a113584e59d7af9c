// Package transfer moves stock between shops at a cost frozen when the
// transfer is requested, so the receiving shop lands exactly the value the
// sending shop carried at that moment.
package transfer

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
)

// Status is the transfer lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Transfer represents one stock movement request between two shops.
type Transfer struct {
	ID id.ID `db:"id" json:"id"`

	// ReferenceCode is the human-facing identifier, also stamped onto the
	// paired ledger entries.
	ReferenceCode string `db:"reference_code" json:"referenceCode"`

	FromShopID id.ID `db:"from_shop_id" json:"fromShopId"`
	ToShopID   id.ID `db:"to_shop_id" json:"toShopId"`
	ProductID  id.ID `db:"product_id" json:"productId"`

	Quantity int64  `db:"quantity" json:"quantity"`
	Status   Status `db:"status" json:"status"`

	// Cost frozen from the source shop's average at request time. Completion
	// lands stock at this cost even if the source average has since drifted.
	UnitCostUSD  decimal.Decimal `db:"unit_cost_usd" json:"unitCostUsd"`
	UnitCostZWL  decimal.Decimal `db:"unit_cost_zwl" json:"unitCostZwl"`
	TotalCostUSD decimal.Decimal `db:"total_cost_usd" json:"totalCostUsd"`
	TotalCostZWL decimal.Decimal `db:"total_cost_zwl" json:"totalCostZwl"`

	Remarks string `db:"remarks" json:"remarks,omitempty"`

	RequestedBy id.ID  `db:"requested_by" json:"requestedBy"`
	ApprovedBy  *id.ID `db:"approved_by" json:"approvedBy,omitempty"`

	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// UnitCost returns both currency tracks of the frozen unit cost.
func (t *Transfer) UnitCost() types.Money {
	return types.NewMoney(t.UnitCostUSD, t.UnitCostZWL)
}

// NewReferenceCode derives the transfer reference from a fresh id.
func NewReferenceCode() string {
	raw := strings.ReplaceAll(id.New().String(), "-", "")
	return "TXF-" + strings.ToUpper(raw[:8])
}

// Validate checks the request shape before any stock is consulted.
func (t *Transfer) Validate(ctx context.Context) error {
	if id.IsNil(t.FromShopID) || id.IsNil(t.ToShopID) {
		return apperror.NewValidation("both shops are required")
	}
	if t.FromShopID == t.ToShopID {
		return apperror.NewValidation("source and destination shops must differ").
			WithDetail("shop_id", t.FromShopID)
	}
	if id.IsNil(t.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if t.Quantity <= 0 {
		return apperror.NewValidation("transfer quantity must be positive").
			WithDetail("quantity", t.Quantity)
	}
	return nil
}

// CanModify returns an error unless the transfer is still pending.
func (t *Transfer) CanModify() error {
	if t.Status != StatusPending {
		return apperror.NewBusinessRule("transfer is no longer pending").
			WithDetail("transfer_id", t.ID).
			WithDetail("reference", t.ReferenceCode).
			WithDetail("status", string(t.Status))
	}
	return nil
}
