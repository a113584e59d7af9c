package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/expense"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1/dto"
)

// ExpenseHandler handles expense endpoints.
type ExpenseHandler struct {
	*BaseHandler
	service *expense.Service
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(base *BaseHandler, service *expense.Service) *ExpenseHandler {
	return &ExpenseHandler{BaseHandler: base, service: service}
}

// Create handles POST /expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	amount, ok := h.ParseMoney(c, req.AmountUSD, req.AmountZWL)
	if !ok {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	e := expense.NewExpense(expense.Type(req.Type), amount, actorID)
	e.Category = req.Category
	e.Description = req.Description

	if req.PurchaseOrderID != nil {
		orderID, err := id.Parse(*req.PurchaseOrderID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid purchaseOrderId format"))
			return
		}
		e.PurchaseOrderID = &orderID
	}
	if req.ShopID != nil {
		shopID, err := id.Parse(*req.ShopID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid shopId format"))
			return
		}
		e.ShopID = &shopID
	}

	if err := h.service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, e)
}

// Get handles GET /expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	expenseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, e)
}

// List handles GET /expenses
// Optional purchaseOrderId or shopId query narrows the listing.
func (h *ExpenseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if s := c.Query("purchaseOrderId"); s != "" {
		orderID, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid purchaseOrderId format"))
			return
		}
		expenses, err := h.service.ListByPurchaseOrder(ctx, orderID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(expenses, len(expenses)))
		return
	}

	if s := c.Query("shopId"); s != "" {
		shopID, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid shopId format"))
			return
		}
		expenses, err := h.service.ListByShop(ctx, shopID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(expenses, len(expenses)))
		return
	}

	expenses, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(expenses, len(expenses)))
}

// Update handles PUT /expenses/:id
// Type and linkage are immutable; only the amounts and labels change.
func (h *ExpenseHandler) Update(c *gin.Context) {
	expenseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	amount, ok := h.ParseMoney(c, req.AmountUSD, req.AmountZWL)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	e, err := h.service.GetByID(ctx, expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	e.AmountUSD = amount.USD
	e.AmountZWL = amount.ZWL
	e.Category = req.Category
	e.Description = req.Description

	if err := h.service.Update(ctx, e); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, e)
}

// Delete handles DELETE /expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	expenseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), expenseID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
