package dto

import "time"

// SaleLineRequest is one line of a new sale.
type SaleLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

// CreateSaleRequest rings up a sale.
type CreateSaleRequest struct {
	ShopID        string            `json:"shopId" binding:"required"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
	Lines         []SaleLineRequest `json:"lines" binding:"required,dive"`
}

// UpdateSaleLineRequest changes a sale line's quantity.
type UpdateSaleLineRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// SaleQuery narrows sale listings.
type SaleQuery struct {
	CashierID string     `form:"cashierId"`
	FromDate  *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"toDate" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
	Offset    int        `form:"offset"`
}
