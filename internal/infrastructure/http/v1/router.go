// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/tentenpanashe01/retail-backend/internal/domain/auth"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/product"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/shop"
	"github.com/tentenpanashe01/retail-backend/internal/domain/expense"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/internal/domain/purchase"
	"github.com/tentenpanashe01/retail-backend/internal/domain/sales"
	"github.com/tentenpanashe01/retail-backend/internal/domain/transfer"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1/handlers"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1/middleware"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/storage/postgres"
	"github.com/tentenpanashe01/retail-backend/pkg/logger"
)

var (
	managerRoles = []string{string(auth.RoleManager), string(auth.RoleAdmin)}
	adminRoles   = []string{string(auth.RoleAdmin)}
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService      *auth.Service
	ShopService      *shop.Service
	ProductService   *product.Service
	InventoryService *inventory.Service
	PurchaseService  *purchase.Service
	ExpenseService   *expense.Service
	TransferService  *transfer.Service
	SalesService     *sales.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		// Public auth endpoint
		apiV1.POST("/auth/login", authHandler.Login)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerAuthRoutes(protected, authHandler)
		registerCatalogRoutes(protected, base, cfg)
		registerInventoryRoutes(protected, base, cfg)
		registerWorkflowRoutes(protected, base, cfg)
	}

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, handler *handlers.AuthHandler) {
	rg.GET("/auth/me", handler.Me)

	users := rg.Group("/users")
	users.Use(middleware.RequireRole(adminRoles...))
	{
		users.POST("", handler.Register)
		users.GET("", handler.ListUsers)
		users.GET("/:id", handler.GetUser)
		users.PATCH("/:id/active", handler.SetActive)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	shopHandler := handlers.NewShopHandler(base, cfg.ShopService)
	shops := rg.Group("/shops")
	{
		shops.GET("", shopHandler.List)
		shops.GET("/:id", shopHandler.Get)
		shops.POST("", middleware.RequireRole(managerRoles...), shopHandler.Create)
		shops.PUT("/:id", middleware.RequireRole(managerRoles...), shopHandler.Update)
		shops.DELETE("/:id", middleware.RequireRole(adminRoles...), shopHandler.Delete)
	}

	productHandler := handlers.NewProductHandler(base, cfg.ProductService)
	products := rg.Group("/products")
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
		products.POST("", middleware.RequireRole(managerRoles...), productHandler.Create)
		products.PUT("/:id", middleware.RequireRole(managerRoles...), productHandler.Update)
		products.DELETE("/:id", middleware.RequireRole(adminRoles...), productHandler.Delete)
	}
}

func registerInventoryRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewInventoryHandler(base, cfg.InventoryService)

	inv := rg.Group("/inventory")
	{
		inv.GET("/positions", handler.GetPositions)
		inv.GET("/movements", handler.GetMovements)
		inv.GET("/verify", middleware.RequireRole(managerRoles...), handler.VerifyLedger)
		inv.POST("/adjustments", middleware.RequireRole(managerRoles...), handler.Adjust)
		inv.PUT("/selling-price", middleware.RequireRole(managerRoles...), handler.SetSellingPrice)
		inv.DELETE("/movements/:id", middleware.RequireRole(adminRoles...), handler.DeleteMovement)
	}
}

func registerWorkflowRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	purchaseHandler := handlers.NewPurchaseHandler(base, cfg.PurchaseService)
	orders := rg.Group("/purchase-orders")
	orders.Use(middleware.RequireRole(managerRoles...))
	{
		orders.GET("", purchaseHandler.List)
		orders.POST("", purchaseHandler.Create)
		orders.GET("/:id", purchaseHandler.Get)
		orders.PUT("/:id", purchaseHandler.Update)
		orders.DELETE("/:id", purchaseHandler.Delete)
		orders.POST("/:id/receive", purchaseHandler.Receive)
		orders.POST("/:id/cancel", purchaseHandler.Cancel)
	}

	expenseHandler := handlers.NewExpenseHandler(base, cfg.ExpenseService)
	expenses := rg.Group("/expenses")
	expenses.Use(middleware.RequireRole(managerRoles...))
	{
		expenses.GET("", expenseHandler.List)
		expenses.POST("", expenseHandler.Create)
		expenses.GET("/:id", expenseHandler.Get)
		expenses.PUT("/:id", expenseHandler.Update)
		expenses.DELETE("/:id", expenseHandler.Delete)
	}

	transferHandler := handlers.NewTransferHandler(base, cfg.TransferService)
	transfers := rg.Group("/transfers")
	transfers.Use(middleware.RequireRole(managerRoles...))
	{
		transfers.GET("", transferHandler.List)
		transfers.POST("", transferHandler.Create)
		transfers.GET("/:id", transferHandler.Get)
		transfers.DELETE("/:id", transferHandler.Delete)
		transfers.POST("/:id/complete", transferHandler.Complete)
		transfers.POST("/:id/cancel", transferHandler.Cancel)
	}

	salesHandler := handlers.NewSalesHandler(base, cfg.SalesService)
	{
		rg.POST("/sales", salesHandler.Create)
		rg.GET("/sales/:id", salesHandler.Get)
		rg.GET("/shops/:id/sales", salesHandler.ListByShop)
		rg.PUT("/sales/:id/lines/:lineId", middleware.RequireRole(managerRoles...), salesHandler.UpdateLine)
		rg.DELETE("/sales/:id/lines/:lineId", middleware.RequireRole(managerRoles...), salesHandler.DeleteLine)
	}
}
