// Package purchase provides purchase orders and the receiving workflow
// that lands their cost into shop stock.
package purchase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
)

// Status is the purchase order lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Order represents one purchase order destined for one shop.
type Order struct {
	ID id.ID `db:"id" json:"id"`

	SupplierName string `db:"supplier_name" json:"supplierName"`
	ShopID       id.ID  `db:"shop_id" json:"shopId"`

	Status       Status     `db:"status" json:"status"`
	OrderDate    time.Time  `db:"order_date" json:"orderDate"`
	ReceivedDate *time.Time `db:"received_date" json:"receivedDate,omitempty"`

	// Aggregates written when the order is received.
	TotalCostUSD decimal.Decimal `db:"total_cost_usd" json:"totalCostUsd"`
	TotalCostZWL decimal.Decimal `db:"total_cost_zwl" json:"totalCostZwl"`
	ExpensesUSD  decimal.Decimal `db:"expenses_usd" json:"expensesUsd"`
	ExpensesZWL  decimal.Decimal `db:"expenses_zwl" json:"expensesZwl"`

	CreatedBy id.ID `db:"created_by" json:"createdBy"`

	Lines []OrderLine `db:"-" json:"lines"`
}

// OrderLine is one product line of a purchase order.
type OrderLine struct {
	ID      id.ID `db:"id" json:"id"`
	OrderID id.ID `db:"order_id" json:"orderId"`

	ProductID id.ID `db:"product_id" json:"productId"`
	Quantity  int64 `db:"quantity" json:"quantity"`

	UnitPriceUSD decimal.Decimal `db:"unit_price_usd" json:"unitPriceUsd"`
	UnitPriceZWL decimal.Decimal `db:"unit_price_zwl" json:"unitPriceZwl"`

	// Derived: unit price x quantity.
	TotalCostUSD decimal.Decimal `db:"total_cost_usd" json:"totalCostUsd"`
	TotalCostZWL decimal.Decimal `db:"total_cost_zwl" json:"totalCostZwl"`
}

// TotalCost returns both currency tracks of the line total.
func (l *OrderLine) TotalCost() types.Money {
	return types.NewMoney(l.TotalCostUSD, l.TotalCostZWL)
}

// UnitPrice returns both currency tracks of the purchase price.
func (l *OrderLine) UnitPrice() types.Money {
	return types.NewMoney(l.UnitPriceUSD, l.UnitPriceZWL)
}

// NewOrder creates a pending order for a shop.
func NewOrder(shopID id.ID, supplierName string, createdBy id.ID) *Order {
	return &Order{
		ID:           id.New(),
		SupplierName: supplierName,
		ShopID:       shopID,
		Status:       StatusPending,
		OrderDate:    time.Now().UTC(),
		CreatedBy:    createdBy,
		Lines:        make([]OrderLine, 0),
	}
}

// AddLine appends a line with the derived total cost.
func (o *Order) AddLine(productID id.ID, quantity int64, unitPrice types.Money) {
	total := unitPrice.MulInt(quantity)
	o.Lines = append(o.Lines, OrderLine{
		ID:           id.New(),
		OrderID:      o.ID,
		ProductID:    productID,
		Quantity:     quantity,
		UnitPriceUSD: unitPrice.USD,
		UnitPriceZWL: unitPrice.ZWL,
		TotalCostUSD: total.USD,
		TotalCostZWL: total.ZWL,
	})
}

// Validate checks required fields and line contents.
func (o *Order) Validate(ctx context.Context) error {
	if id.IsNil(o.ShopID) {
		return apperror.NewValidation("shop is required").
			WithDetail("field", "shopId")
	}

	for i, line := range o.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice().IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// CanModify returns an error unless the order is still pending.
func (o *Order) CanModify() error {
	if o.Status != StatusPending {
		return apperror.NewBusinessRule("purchase order is no longer pending").
			WithDetail("order_id", o.ID).
			WithDetail("status", string(o.Status))
	}
	return nil
}
