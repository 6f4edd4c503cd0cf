package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tallymatic/tallymatic-api/config"
	"github.com/tallymatic/tallymatic-api/docs"
	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/handlers"
	"github.com/tallymatic/tallymatic-api/logger"
	"github.com/tallymatic/tallymatic-api/middleware"
	"github.com/tallymatic/tallymatic-api/types"
)

// Registrar mounts a resource's endpoints on its group.
type Registrar interface {
	Register(rg *gin.RouterGroup)
}

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config         *config.Config
	RedisClient    *redis.Client
	AuthMiddleware gin.HandlerFunc
	Metrics        *middleware.HTTPMetrics
	// MetricsHandler serves /metrics; promhttp.Handler() when nil.
	MetricsHandler http.Handler

	HealthHandler *handlers.HealthHandler
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler

	ProductHandler        Registrar
	ProductTypeHandler    Registrar
	ProductOptionHandler  Registrar
	ProductVariantHandler Registrar
	StoreHandler          Registrar
	InventoryItemHandler  Registrar
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.GetLogger().Warnw("Invalid trusted proxies, forwarding headers are ignored", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLogger(cfg))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(middleware.SecurityHeadersMiddleware(cfg))
	r.Use(middleware.CORSMiddleware(&cfg.Server))
	r.Use(middleware.ErrorHandler(cfg))
	r.Use(middleware.CustomRecovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, types.MessageResponse{Message: "Tallymatic API"})
	})

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	v1 := r.Group("/v1")
	{
		authRoutes := v1.Group("/auth")
		if cfg.IsProduction() && deps.RedisClient != nil {
			authRoutes.Use(middleware.AuthRateLimiter(deps.RedisClient, cfg.RateLimit.AuthRequestsPerWindow, cfg.RateLimit.Window()))
		}
		deps.AuthHandler.Register(authRoutes, deps.AuthMiddleware)

		// --- Authenticated Routes ---
		protected := v1.Group("")
		protected.Use(deps.AuthMiddleware)
		{
			deps.UserHandler.Register(protected.Group(types.UserResource.Path))
			deps.ProductHandler.Register(protected.Group(types.ProductResource.Path))
			deps.ProductTypeHandler.Register(protected.Group(types.ProductTypeResource.Path))
			deps.ProductOptionHandler.Register(protected.Group(types.ProductOptionResource.Path))
			deps.ProductVariantHandler.Register(protected.Group(types.ProductVariantResource.Path))
			deps.StoreHandler.Register(protected.Group(types.StoreResource.Path))
			deps.InventoryItemHandler.Register(protected.Group(types.InventoryItemResource.Path))
		}
	}

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.New(apperrors.NotFoundError, "Not found", c.Request.URL.Path))
		c.Abort()
	})

	return r
}
