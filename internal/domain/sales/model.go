// Package sales records point-of-sale transactions. A sale consumes shop
// stock at the moment it is rung up; the selling price and cost on every
// line are frozen then, so later price and cost changes never rewrite a
// past sale's revenue or profit.
package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
)

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "CASH"
	PaymentCard    PaymentMethod = "CARD"
	PaymentEcocash PaymentMethod = "ECOCASH"
	PaymentSwipe   PaymentMethod = "SWIPE"
)

// Valid reports whether the payment method is one of the accepted values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentEcocash, PaymentSwipe:
		return true
	}
	return false
}

// Sale is one completed point-of-sale transaction.
type Sale struct {
	ID id.ID `db:"id" json:"id"`

	ShopID    id.ID     `db:"shop_id" json:"shopId"`
	CashierID id.ID     `db:"cashier_id" json:"cashierId"`
	SaleDate  time.Time `db:"sale_date" json:"saleDate"`

	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`

	TotalAmountUSD decimal.Decimal `db:"total_amount_usd" json:"totalAmountUsd"`
	TotalAmountZWL decimal.Decimal `db:"total_amount_zwl" json:"totalAmountZwl"`
	TotalProfitUSD decimal.Decimal `db:"total_profit_usd" json:"totalProfitUsd"`
	TotalProfitZWL decimal.Decimal `db:"total_profit_zwl" json:"totalProfitZwl"`

	Lines []SaleLine `db:"-" json:"lines"`
}

// SaleLine is one product line of a sale.
type SaleLine struct {
	ID     id.ID `db:"id" json:"id"`
	SaleID id.ID `db:"sale_id" json:"saleId"`

	ProductID id.ID `db:"product_id" json:"productId"`
	Quantity  int64 `db:"quantity" json:"quantity"`

	// Frozen at creation: shop override when set, else catalog price.
	SellingPriceUSD decimal.Decimal `db:"selling_price_usd" json:"sellingPriceUsd"`
	SellingPriceZWL decimal.Decimal `db:"selling_price_zwl" json:"sellingPriceZwl"`

	// Frozen at creation: the position's average landing cost.
	CostPriceUSD decimal.Decimal `db:"cost_price_usd" json:"costPriceUsd"`
	CostPriceZWL decimal.Decimal `db:"cost_price_zwl" json:"costPriceZwl"`

	TotalUSD  decimal.Decimal `db:"total_usd" json:"totalUsd"`
	TotalZWL  decimal.Decimal `db:"total_zwl" json:"totalZwl"`
	ProfitUSD decimal.Decimal `db:"profit_usd" json:"profitUsd"`
	ProfitZWL decimal.Decimal `db:"profit_zwl" json:"profitZwl"`
}

// SellingPrice returns both currency tracks of the frozen selling price.
func (l *SaleLine) SellingPrice() types.Money {
	return types.NewMoney(l.SellingPriceUSD, l.SellingPriceZWL)
}

// CostPrice returns both currency tracks of the frozen cost.
func (l *SaleLine) CostPrice() types.Money {
	return types.NewMoney(l.CostPriceUSD, l.CostPriceZWL)
}

// Total returns both currency tracks of the line total.
func (l *SaleLine) Total() types.Money {
	return types.NewMoney(l.TotalUSD, l.TotalZWL)
}

// Profit returns both currency tracks of the line profit.
func (l *SaleLine) Profit() types.Money {
	return types.NewMoney(l.ProfitUSD, l.ProfitZWL)
}

// recompute derives the line total and profit from frozen prices.
func (l *SaleLine) recompute() {
	total := l.SellingPrice().MulInt(l.Quantity)
	profit := l.SellingPrice().Sub(l.CostPrice()).MulInt(l.Quantity)
	l.TotalUSD = total.USD
	l.TotalZWL = total.ZWL
	l.ProfitUSD = profit.USD
	l.ProfitZWL = profit.ZWL
}

// LineInput is one requested line of a new sale.
type LineInput struct {
	ProductID id.ID
	Quantity  int64
}

// validateInput checks a new sale request before any stock is touched.
func validateInput(ctx context.Context, shopID, cashierID id.ID, lines []LineInput, method PaymentMethod) error {
	if id.IsNil(shopID) {
		return apperror.NewValidation("shop is required").WithDetail("field", "shopId")
	}
	if id.IsNil(cashierID) {
		return apperror.NewValidation("cashier is required").WithDetail("field", "cashierId")
	}
	if !method.Valid() {
		return apperror.NewValidation("invalid payment method").
			WithDetail("value", string(method))
	}
	if len(lines) == 0 {
		return apperror.NewValidation("a sale requires at least one line")
	}
	for i, l := range lines {
		if id.IsNil(l.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("lineNo", i+1)
		}
		if l.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}
