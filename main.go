package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/tallymatic/tallymatic-api/config"
	"github.com/tallymatic/tallymatic-api/db"
	"github.com/tallymatic/tallymatic-api/handlers"
	"github.com/tallymatic/tallymatic-api/internal/auth"
	"github.com/tallymatic/tallymatic-api/logger"
	"github.com/tallymatic/tallymatic-api/middleware"
	"github.com/tallymatic/tallymatic-api/permissions"
	"github.com/tallymatic/tallymatic-api/router"
	"github.com/tallymatic/tallymatic-api/services"
	"github.com/tallymatic/tallymatic-api/store/postgres"
	redisstore "github.com/tallymatic/tallymatic-api/store/redis"
	"github.com/tallymatic/tallymatic-api/types"
)

const shutdownTimeout = 15 * time.Second

// @title Tallymatic API
// @version 1.0
// @description Catalog and inventory management API.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	redisOptions := &redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("Redis is not reachable at startup", "address", cfg.Redis.Address, "error", err)
	}

	rules := permissions.DefaultRules()
	if cfg.Permissions.RulesFile != "" {
		rules, err = permissions.LoadRules(cfg.Permissions.RulesFile)
		if err != nil {
			log.Fatalf("Failed to load permission rules: %v", err)
		}
	}
	checker := permissions.NewChecker(rules)

	// Services
	userService := services.NewUserService(postgres.NewUserStore(pool))
	tokenService := auth.NewTokenService(cfg.JWT)
	emailService := services.NewEmailService(&cfg.Email, prometheus.DefaultRegisterer)
	authService := services.NewAuthService(userService, tokenService, redisstore.NewTokenStore(redisClient), emailService)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version)

	productService := services.NewResourceService[types.Product](postgres.NewProductStore(pool), types.ProductResource.Label)
	productTypeService := services.NewResourceService[types.ProductType](postgres.NewProductTypeStore(pool), types.ProductTypeResource.Label)
	productOptionService := services.NewResourceService[types.ProductOption](postgres.NewProductOptionStore(pool), types.ProductOptionResource.Label)
	productVariantService := services.NewResourceService[types.ProductVariant](postgres.NewProductVariantStore(pool), types.ProductVariantResource.Label)
	storeService := services.NewResourceService[types.Store](postgres.NewStoreStore(pool), types.StoreResource.Label)
	inventoryItemService := services.NewResourceService[types.InventoryItem](postgres.NewInventoryItemStore(pool), types.InventoryItemResource.Label)

	r := router.SetupRouter(router.Dependencies{
		Config:         cfg,
		RedisClient:    redisClient,
		AuthMiddleware: middleware.AuthMiddleware(tokenService, userService),
		Metrics:        middleware.NewHTTPMetrics(prometheus.DefaultRegisterer),
		HealthHandler:  handlers.NewHealthHandler(healthService),
		AuthHandler:    handlers.NewAuthHandler(authService),
		UserHandler:    handlers.NewUserHandler(userService, checker),
		ProductHandler: handlers.NewResourceHandler[types.Product, types.CreateProductRequest, types.UpdateProductRequest](
			productService, checker, types.ProductResource),
		ProductTypeHandler: handlers.NewResourceHandler[types.ProductType, types.CreateProductTypeRequest, types.UpdateProductTypeRequest](
			productTypeService, checker, types.ProductTypeResource),
		ProductOptionHandler: handlers.NewResourceHandler[types.ProductOption, types.CreateProductOptionRequest, types.UpdateProductOptionRequest](
			productOptionService, checker, types.ProductOptionResource),
		ProductVariantHandler: handlers.NewResourceHandler[types.ProductVariant, types.CreateProductVariantRequest, types.UpdateProductVariantRequest](
			productVariantService, checker, types.ProductVariantResource),
		StoreHandler: handlers.NewResourceHandler[types.Store, types.CreateStoreRequest, types.UpdateStoreRequest](
			storeService, checker, types.StoreResource),
		InventoryItemHandler: handlers.NewResourceHandler[types.InventoryItem, types.CreateInventoryItemRequest, types.UpdateInventoryItemRequest](
			inventoryItemService, checker, types.InventoryItemResource),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment, "version", cfg.Server.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	log.Info("Server stopped")
}
