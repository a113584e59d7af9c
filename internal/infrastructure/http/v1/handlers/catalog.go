package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/product"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/shop"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1/dto"
)

// ShopHandler handles shop catalog endpoints.
type ShopHandler struct {
	*BaseHandler
	service *shop.Service
}

// NewShopHandler creates a new shop handler.
func NewShopHandler(base *BaseHandler, service *shop.Service) *ShopHandler {
	return &ShopHandler{BaseHandler: base, service: service}
}

// Create handles POST /shops
func (h *ShopHandler) Create(c *gin.Context) {
	var req dto.CreateShopRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sh := shop.NewShop(req.Name)
	sh.Location = req.Location
	sh.ContactNumber = req.ContactNumber
	sh.ManagerName = req.ManagerName

	if err := h.service.Create(c.Request.Context(), sh); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, sh)
}

// Get handles GET /shops/:id
func (h *ShopHandler) Get(c *gin.Context) {
	shopID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sh, err := h.service.GetByID(c.Request.Context(), shopID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sh)
}

// List handles GET /shops
func (h *ShopHandler) List(c *gin.Context) {
	shops, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(shops, len(shops)))
}

// Update handles PUT /shops/:id
func (h *ShopHandler) Update(c *gin.Context) {
	shopID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateShopRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	sh, err := h.service.GetByID(ctx, shopID)
	if err != nil {
		h.Error(c, err)
		return
	}

	sh.Name = req.Name
	sh.Location = req.Location
	sh.ContactNumber = req.ContactNumber
	sh.ManagerName = req.ManagerName

	if err := h.service.Update(ctx, sh); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sh)
}

// Delete handles DELETE /shops/:id
func (h *ShopHandler) Delete(c *gin.Context) {
	shopID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), shopID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	price, ok := h.ParseMoney(c, req.SellingPriceUSD, req.SellingPriceZWL)
	if !ok {
		return
	}

	p := product.NewProduct(req.Name, price)
	p.Category = req.Category
	p.Unit = req.Unit
	p.ReorderLevel = req.ReorderLevel

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(products, len(products)))
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	price, ok := h.ParseMoney(c, req.SellingPriceUSD, req.SellingPriceZWL)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	p, err := h.service.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	p.Name = req.Name
	p.Category = req.Category
	p.Unit = req.Unit
	p.ReorderLevel = req.ReorderLevel
	p.SellingPriceUSD = price.USD
	p.SellingPriceZWL = price.ZWL

	if err := h.service.Update(ctx, p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
