// Package main is the entry point for the retail backend API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tentenpanashe01/retail-backend/internal/domain/auth"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/product"
	"github.com/tentenpanashe01/retail-backend/internal/domain/catalogs/shop"
	"github.com/tentenpanashe01/retail-backend/internal/domain/expense"
	"github.com/tentenpanashe01/retail-backend/internal/domain/inventory"
	"github.com/tentenpanashe01/retail-backend/internal/domain/purchase"
	"github.com/tentenpanashe01/retail-backend/internal/domain/sales"
	"github.com/tentenpanashe01/retail-backend/internal/domain/transfer"
	v1 "github.com/tentenpanashe01/retail-backend/internal/infrastructure/http/v1"
	"github.com/tentenpanashe01/retail-backend/internal/infrastructure/storage/postgres"
	"github.com/tentenpanashe01/retail-backend/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting retail backend server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	inventoryRepo := postgres.NewInventoryRepo(txManager)
	shopRepo := postgres.NewShopRepo(txManager)
	productRepo := postgres.NewProductRepo(txManager)
	purchaseRepo := postgres.NewPurchaseRepo(txManager)
	expenseRepo := postgres.NewExpenseRepo(txManager)
	transferRepo := postgres.NewTransferRepo(txManager)
	salesRepo := postgres.NewSalesRepo(txManager)
	userRepo := postgres.NewUserRepo(txManager)

	// --- JWT + Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())

	// --- Domain services ---
	inventoryService := inventory.NewService(inventoryRepo, txManager)
	shopService := shop.NewService(shopRepo, inventoryRepo)
	productService := product.NewService(productRepo, inventoryRepo)
	expenseService := expense.NewService(expenseRepo)
	purchaseService := purchase.NewService(purchaseRepo, inventoryService, expenseService, txManager)
	transferService := transfer.NewService(transferRepo, inventoryService, txManager)
	salesService := sales.NewService(salesRepo, shopRepo, productRepo, inventoryService, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		ShopService:      shopService,
		ProductService:   productService,
		InventoryService: inventoryService,
		PurchaseService:  purchaseService,
		ExpenseService:   expenseService,
		TransferService:  transferService,
		SalesService:     salesService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
