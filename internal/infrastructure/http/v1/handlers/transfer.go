package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/transfer"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1/dto"
)

// TransferHandler handles stock transfer endpoints.
type TransferHandler struct {
	*BaseHandler
	service *transfer.Service
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *transfer.Service) *TransferHandler {
	return &TransferHandler{BaseHandler: base, service: service}
}

// Create handles POST /transfers
// The source cost is frozen at request time.
func (h *TransferHandler) Create(c *gin.Context) {
	var req dto.CreateTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	fromShopID, err := id.Parse(req.FromShopID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid fromShopId format"))
		return
	}
	toShopID, err := id.Parse(req.ToShopID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid toShopId format"))
		return
	}
	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	t := &transfer.Transfer{
		FromShopID:  fromShopID,
		ToShopID:    toShopID,
		ProductID:   productID,
		Quantity:    req.Quantity,
		Remarks:     req.Remarks,
		RequestedBy: actorID,
	}

	if err := h.service.Create(c.Request.Context(), t); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// Get handles GET /transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	transferID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), transferID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, t)
}

// List handles GET /transfers
// Optional shopId (either side) or status query narrows the listing.
func (h *TransferHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if s := c.Query("shopId"); s != "" {
		shopID, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid shopId format"))
			return
		}
		transfers, err := h.service.ListByShop(ctx, shopID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(transfers, len(transfers)))
		return
	}

	if s := c.Query("status"); s != "" {
		transfers, err := h.service.ListByStatus(ctx, transfer.Status(s))
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(transfers, len(transfers)))
		return
	}

	transfers, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(transfers, len(transfers)))
}

// Complete handles POST /transfers/:id/complete
// Moves the stock at the frozen cost.
func (h *TransferHandler) Complete(c *gin.Context) {
	transferID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	t, err := h.service.Complete(c.Request.Context(), transferID, actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, t)
}

// Cancel handles POST /transfers/:id/cancel
func (h *TransferHandler) Cancel(c *gin.Context) {
	transferID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), transferID, actorID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "transfer cancelled")
}

// Delete handles DELETE /transfers/:id
func (h *TransferHandler) Delete(c *gin.Context) {
	transferID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), transferID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
