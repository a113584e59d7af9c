package dto

// CreateTransferRequest requests a stock transfer between shops.
type CreateTransferRequest struct {
	FromShopID string `json:"fromShopId" binding:"required"`
	ToShopID   string `json:"toShopId" binding:"required"`
	ProductID  string `json:"productId" binding:"required"`
	Quantity   int64  `json:"quantity" binding:"required,min=1"`
	Remarks    string `json:"remarks"`
}
