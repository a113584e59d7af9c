package dto

// CreateExpenseRequest records an expense. PURCHASE expenses require
// purchaseOrderId; OPERATIONAL expenses require shopId.
type CreateExpenseRequest struct {
	Type            string  `json:"type" binding:"required"`
	PurchaseOrderID *string `json:"purchaseOrderId"`
	ShopID          *string `json:"shopId"`
	AmountUSD       string  `json:"amountUsd" binding:"required"`
	AmountZWL       string  `json:"amountZwl" binding:"required"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
}

// UpdateExpenseRequest changes an expense's amounts and labels.
type UpdateExpenseRequest struct {
	AmountUSD   string `json:"amountUsd" binding:"required"`
	AmountZWL   string `json:"amountZwl" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
}
