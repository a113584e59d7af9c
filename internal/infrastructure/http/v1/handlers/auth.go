package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	appctx "github.com/tentenpanashe01/retail-backend/internal/core/context"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/auth"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and user management endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.service.Login(ctx, auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Register handles POST /users
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	regReq := auth.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     auth.Role(req.Role),
	}
	if req.ShopID != nil {
		shopID, err := id.Parse(*req.ShopID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid shopId format"))
			return
		}
		regReq.ShopID = &shopID
	}

	user, err := h.service.Register(ctx, regReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userCtx := appctx.GetUser(ctx)
	if userCtx == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	userID, err := id.Parse(userCtx.UserID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid user identity"))
		return
	}

	user, err := h.service.GetByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}

// ListUsers handles GET /users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(users, len(users)))
}

// GetUser handles GET /users/:id
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}

// SetActive handles PATCH /users/:id/active
func (h *AuthHandler) SetActive(c *gin.Context) {
	userID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetUserActiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	user, err := h.service.SetActive(c.Request.Context(), userID, *req.IsActive, actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}
