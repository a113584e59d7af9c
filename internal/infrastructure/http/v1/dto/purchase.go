package dto

// OrderLineRequest is one line of a purchase order request.
type OrderLineRequest struct {
	ProductID    string `json:"productId" binding:"required"`
	Quantity     int64  `json:"quantity" binding:"required,min=1"`
	UnitPriceUSD string `json:"unitPriceUsd" binding:"required"`
	UnitPriceZWL string `json:"unitPriceZwl" binding:"required"`
}

// CreateOrderRequest creates a pending purchase order.
type CreateOrderRequest struct {
	SupplierName string             `json:"supplierName" binding:"required"`
	ShopID       string             `json:"shopId" binding:"required"`
	Lines        []OrderLineRequest `json:"lines" binding:"required,dive"`
}

// UpdateOrderRequest rewrites a pending order.
type UpdateOrderRequest struct {
	SupplierName string             `json:"supplierName" binding:"required"`
	ShopID       string             `json:"shopId" binding:"required"`
	Lines        []OrderLineRequest `json:"lines" binding:"required,dive"`
}
