package dto

import "time"

// AdjustStockRequest applies a manual stock correction.
type AdjustStockRequest struct {
	ShopID    string `json:"shopId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	DeltaQty  int64  `json:"deltaQty" binding:"required"`

	// Optional revaluation: when set, both tracks are required together.
	NewUnitCostUSD *string `json:"newUnitCostUsd"`
	NewUnitCostZWL *string `json:"newUnitCostZwl"`

	Reason string `json:"reason" binding:"required"`
}

// SetSellingPriceRequest sets a shop-specific selling price override.
type SetSellingPriceRequest struct {
	ShopID    string `json:"shopId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	PriceUSD  string `json:"priceUsd" binding:"required"`
	PriceZWL  string `json:"priceZwl" binding:"required"`
}

// MovementQuery narrows ledger history requests.
type MovementQuery struct {
	Kind     string     `form:"kind"`
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02"`
	Limit    int        `form:"limit"`
	Offset   int        `form:"offset"`
}
