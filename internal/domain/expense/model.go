// Package expense provides expense records. A PURCHASE expense is linked
// to a purchase order and participates in landing-cost proration when the
// order is received; an OPERATIONAL expense belongs to a shop and never
// enters costing.
package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
)

// Type classifies an expense.
type Type string

const (
	TypePurchase    Type = "PURCHASE"
	TypeOperational Type = "OPERATIONAL"
)

// Expense represents one recorded expense.
type Expense struct {
	ID id.ID `db:"id" json:"id"`

	Type Type `db:"type" json:"type"`

	// PurchaseOrderID is set for PURCHASE expenses only.
	PurchaseOrderID *id.ID `db:"purchase_order_id" json:"purchaseOrderId,omitempty"`

	// ShopID is set for OPERATIONAL expenses only.
	ShopID *id.ID `db:"shop_id" json:"shopId,omitempty"`

	AmountUSD decimal.Decimal `db:"amount_usd" json:"amountUsd"`
	AmountZWL decimal.Decimal `db:"amount_zwl" json:"amountZwl"`

	Category    string `db:"category" json:"category,omitempty"`
	Description string `db:"description" json:"description,omitempty"`

	RecordedBy id.ID     `db:"recorded_by" json:"recordedBy"`
	Date       time.Time `db:"date" json:"date"`
}

// NewExpense creates an expense with generated id and timestamp.
func NewExpense(expenseType Type, amount types.Money, recordedBy id.ID) *Expense {
	return &Expense{
		ID:         id.New(),
		Type:       expenseType,
		AmountUSD:  amount.USD,
		AmountZWL:  amount.ZWL,
		RecordedBy: recordedBy,
		Date:       time.Now().UTC(),
	}
}

// Amount returns both currency tracks.
func (e *Expense) Amount() types.Money {
	return types.NewMoney(e.AmountUSD, e.AmountZWL)
}

// Validate checks type-specific linkage rules.
func (e *Expense) Validate(ctx context.Context) error {
	switch e.Type {
	case TypePurchase:
		if e.PurchaseOrderID == nil || id.IsNil(*e.PurchaseOrderID) {
			return apperror.NewValidation("purchase expense requires a purchase order").
				WithDetail("field", "purchaseOrderId")
		}
	case TypeOperational:
		if e.ShopID == nil || id.IsNil(*e.ShopID) {
			return apperror.NewValidation("operational expense requires a shop").
				WithDetail("field", "shopId")
		}
	default:
		return apperror.NewValidation("invalid expense type").
			WithDetail("value", string(e.Type))
	}

	if e.Amount().IsNegative() {
		return apperror.NewValidation("expense amount must not be negative")
	}
	return nil
}
