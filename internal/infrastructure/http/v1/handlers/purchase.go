package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/purchase"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles purchase order endpoints.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a new purchase order handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service}
}

func (h *PurchaseHandler) applyLines(c *gin.Context, order *purchase.Order, lines []dto.OrderLineRequest) bool {
	for _, line := range lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format").WithDetail("value", line.ProductID))
			return false
		}
		unitPrice, ok := h.ParseMoney(c, line.UnitPriceUSD, line.UnitPriceZWL)
		if !ok {
			return false
		}
		order.AddLine(productID, line.Quantity, unitPrice)
	}
	return true
}

// Create handles POST /purchase-orders
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shopID, err := id.Parse(req.ShopID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid shopId format"))
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	order := purchase.NewOrder(shopID, req.SupplierName, actorID)
	if !h.applyLines(c, order, req.Lines) {
		return
	}

	if err := h.service.Create(c.Request.Context(), order); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Get handles GET /purchase-orders/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// List handles GET /purchase-orders
// Optional shopId or status query narrows the listing.
func (h *PurchaseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if s := c.Query("shopId"); s != "" {
		shopID, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid shopId format"))
			return
		}
		orders, err := h.service.ListByShop(ctx, shopID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(orders, len(orders)))
		return
	}

	if s := c.Query("status"); s != "" {
		orders, err := h.service.ListByStatus(ctx, purchase.Status(s))
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(orders, len(orders)))
		return
	}

	orders, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(orders, len(orders)))
}

// Update handles PUT /purchase-orders/:id
func (h *PurchaseHandler) Update(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shopID, err := id.Parse(req.ShopID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid shopId format"))
		return
	}

	ctx := c.Request.Context()
	order, err := h.service.GetByID(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	order.SupplierName = req.SupplierName
	order.ShopID = shopID
	order.Lines = nil
	order.TotalCostUSD = decimal.Zero
	order.TotalCostZWL = decimal.Zero
	if !h.applyLines(c, order, req.Lines) {
		return
	}

	if err := h.service.Update(ctx, order); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// Receive handles POST /purchase-orders/:id/receive
// Lands the order into stock with expenses prorated across lines.
func (h *PurchaseHandler) Receive(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	order, err := h.service.Receive(c.Request.Context(), orderID, actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), orderID, actorID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "purchase order cancelled")
}

// Delete handles DELETE /purchase-orders/:id
func (h *PurchaseHandler) Delete(c *gin.Context) {
	orderID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
