package dto

// CreateShopRequest creates a retail location.
type CreateShopRequest struct {
	Name          string `json:"name" binding:"required"`
	Location      string `json:"location"`
	ContactNumber string `json:"contactNumber"`
	ManagerName   string `json:"managerName"`
}

// UpdateShopRequest replaces shop details.
type UpdateShopRequest struct {
	Name          string `json:"name" binding:"required"`
	Location      string `json:"location"`
	ContactNumber string `json:"contactNumber"`
	ManagerName   string `json:"managerName"`
}

// CreateProductRequest creates a catalog product.
type CreateProductRequest struct {
	Name            string `json:"name" binding:"required"`
	Category        string `json:"category"`
	Unit            string `json:"unit"`
	ReorderLevel    int64  `json:"reorderLevel" binding:"min=0"`
	SellingPriceUSD string `json:"sellingPriceUsd" binding:"required"`
	SellingPriceZWL string `json:"sellingPriceZwl" binding:"required"`
}

// UpdateProductRequest replaces product details.
type UpdateProductRequest struct {
	Name            string `json:"name" binding:"required"`
	Category        string `json:"category"`
	Unit            string `json:"unit"`
	ReorderLevel    int64  `json:"reorderLevel" binding:"min=0"`
	SellingPriceUSD string `json:"sellingPriceUsd" binding:"required"`
	SellingPriceZWL string `json:"sellingPriceZwl" binding:"required"`
}
