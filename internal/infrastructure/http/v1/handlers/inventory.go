package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/core/types"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles stock position and movement ledger endpoints.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// GetPositions handles GET /inventory/positions
// Requires shopId or productId; with both, returns the single pair.
func (h *InventoryHandler) GetPositions(c *gin.Context) {
	ctx := c.Request.Context()

	var shopID, productID *id.ID
	if s := c.Query("shopId"); s != "" {
		parsed, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid shopId format"))
			return
		}
		shopID = &parsed
	}
	if s := c.Query("productId"); s != "" {
		parsed, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		productID = &parsed
	}

	switch {
	case shopID != nil && productID != nil:
		pos, err := h.service.Position(ctx, *shopID, *productID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, pos)
	case shopID != nil:
		positions, err := h.service.PositionsByShop(ctx, *shopID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(positions, len(positions)))
	case productID != nil:
		positions, err := h.service.PositionsByProduct(ctx, *productID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(positions, len(positions)))
	default:
		h.Error(c, apperror.NewValidation("shopId or productId is required"))
	}
}

// Adjust handles POST /inventory/adjustments
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shopID, err := id.Parse(req.ShopID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid shopId format"))
		return
	}
	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	var newUnitCost *types.Money
	if req.NewUnitCostUSD != nil || req.NewUnitCostZWL != nil {
		if req.NewUnitCostUSD == nil || req.NewUnitCostZWL == nil {
			h.Error(c, apperror.NewValidation("revaluation requires both currency tracks"))
			return
		}
		cost, ok := h.ParseMoney(c, *req.NewUnitCostUSD, *req.NewUnitCostZWL)
		if !ok {
			return
		}
		newUnitCost = &cost
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	pos, err := h.service.Adjust(c.Request.Context(), shopID, productID, req.DeltaQty, newUnitCost, req.Reason, actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, pos)
}

// SetSellingPrice handles PUT /inventory/selling-price
func (h *InventoryHandler) SetSellingPrice(c *gin.Context) {
	var req dto.SetSellingPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shopID, err := id.Parse(req.ShopID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid shopId format"))
		return
	}
	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	price, ok := h.ParseMoney(c, req.PriceUSD, req.PriceZWL)
	if !ok {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	pos, err := h.service.SetSellingPrice(c.Request.Context(), shopID, productID, price, actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, pos)
}

// GetMovements handles GET /inventory/movements
// Accepts shopId, productId or referenceId; plus kind/date/pagination filters.
func (h *InventoryHandler) GetMovements(c *gin.Context) {
	ctx := c.Request.Context()

	if ref := c.Query("referenceId"); ref != "" {
		movements, err := h.service.MovementsByReference(ctx, ref)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(movements, len(movements)))
		return
	}

	var query dto.MovementQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := inventory.MovementFilter{
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if query.Kind != "" {
		kind := inventory.MovementKind(query.Kind)
		filter.Kind = &kind
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	if s := c.Query("shopId"); s != "" {
		shopID, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid shopId format"))
			return
		}
		movements, err := h.service.MovementsByShop(ctx, shopID, filter)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(movements, len(movements)))
		return
	}

	if s := c.Query("productId"); s != "" {
		productID, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		movements, err := h.service.MovementsByProduct(ctx, productID, filter)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(movements, len(movements)))
		return
	}

	h.Error(c, apperror.NewValidation("shopId, productId or referenceId is required"))
}

// DeleteMovement handles DELETE /inventory/movements/:id
func (h *InventoryHandler) DeleteMovement(c *gin.Context) {
	movementID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMovement(c.Request.Context(), movementID, actorID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// VerifyLedger handles GET /inventory/verify
// Recomputes the position quantity from the ledger and reports drift.
func (h *InventoryHandler) VerifyLedger(c *gin.Context) {
	shopID, err := id.Parse(c.Query("shopId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid shopId format"))
		return
	}
	productID, err := id.Parse(c.Query("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	consistent, err := h.service.VerifyLedger(c.Request.Context(), shopID, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"consistent": consistent})
}
