package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/sales"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles point-of-sale endpoints.
type SalesHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, service *sales.Service) *SalesHandler {
	return &SalesHandler{BaseHandler: base, service: service}
}

// Create handles POST /sales
// The authenticated user is recorded as the cashier.
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shopID, err := id.Parse(req.ShopID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid shopId format"))
		return
	}

	cashierID, ok := h.ActorID(c)
	if !ok {
		return
	}

	lines := make([]sales.LineInput, len(req.Lines))
	for i, line := range req.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format").WithDetail("value", line.ProductID))
			return
		}
		lines[i] = sales.LineInput{ProductID: productID, Quantity: line.Quantity}
	}

	sale, err := h.service.CreateSale(c.Request.Context(), shopID, cashierID, lines, sales.PaymentMethod(req.PaymentMethod))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// Get handles GET /sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}

// ListByShop handles GET /shops/:id/sales
func (h *SalesHandler) ListByShop(c *gin.Context) {
	shopID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var query dto.SaleQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := sales.Filter{
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if query.CashierID != "" {
		cashierID, err := id.Parse(query.CashierID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid cashierId format"))
			return
		}
		filter.CashierID = &cashierID
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	items, err := h.service.ListByShop(c.Request.Context(), shopID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items, len(items)))
}

// UpdateLine handles PUT /sales/:id/lines/:lineId
// Stock moves by the quantity difference; restores use the frozen line cost.
func (h *SalesHandler) UpdateLine(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParseIDParam(c, "lineId")
	if !ok {
		return
	}

	var req dto.UpdateSaleLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	sale, err := h.service.UpdateLine(c.Request.Context(), saleID, lineID, req.Quantity, actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}

// DeleteLine handles DELETE /sales/:id/lines/:lineId
func (h *SalesHandler) DeleteLine(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.ParseIDParam(c, "lineId")
	if !ok {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	sale, err := h.service.DeleteLine(c.Request.Context(), saleID, lineID, actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}
