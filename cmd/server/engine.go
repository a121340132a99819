package main

import (
	"time"

	"github.com/erp/procurement/internal/infrastructure/auth"
	"github.com/erp/procurement/internal/infrastructure/cache"
	"github.com/erp/procurement/internal/infrastructure/config"
	"github.com/erp/procurement/internal/infrastructure/logger"
	"github.com/erp/procurement/internal/interfaces/http/handler"
	"github.com/erp/procurement/internal/interfaces/http/middleware"
	"github.com/erp/procurement/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	_ "github.com/erp/procurement/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var operationalPaths = []string{"/health", "/ready"}

// newEngine builds the gin engine: global middleware, the operational
// endpoints and the versioned procurement API.
func newEngine(
	cfg *config.Config,
	log *zap.Logger,
	meter metric.Meter,
	store cache.ReplayStore,
	system *handler.SystemHandler,
	handlers router.Handlers,
) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	}

	// Order: request id, panic recovery, tracing, access log, headers, limits
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.GinMiddleware(log, operationalPaths...))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", middleware.IdempotentReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", system.Health)
	engine.GET("/ready", system.Ready)

	authMiddleware := authentication(cfg, log, store)
	swaggerAuth := authMiddleware
	if !cfg.JWT.Enabled {
		swaggerAuth = nil
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, swaggerAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(
		authMiddleware,
		middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
			HeaderEnabled: !cfg.JWT.Enabled,
			Required:      true,
			Logger:        log,
		}),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(meter, log),
		middleware.ProfilingWithConfig(middleware.ProfilingConfig{Enabled: cfg.Telemetry.ProfilingEnabled}),
	)
	router.RegisterProcurementRoutes(r, handlers, router.RouteOptions{
		Permissions: middleware.NewPermissionGuard(middleware.PermissionConfig{
			Logger:         log,
			AllowAnonymous: !cfg.JWT.Enabled,
		}),
		Idempotency: middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  store,
			TTL:    cfg.HTTP.IdempotencyTTL,
			Logger: log,
		}),
	})
	if err := r.Setup(); err != nil {
		return nil, err
	}
	log.Debug("API routes mounted", zap.String("base_path", r.BasePath()), zap.Int("routes", len(r.Routes())))

	return engine, nil
}

// authentication validates bearer tokens when JWT is enabled. Revocations are
// read from Redis when the idempotency store runs on it.
func authentication(cfg *config.Config, log *zap.Logger, store cache.ReplayStore) gin.HandlerFunc {
	if !cfg.JWT.Enabled {
		log.Warn("JWT authentication disabled, tenants are taken from the X-Tenant-ID header")
		return func(c *gin.Context) { c.Next() }
	}

	jwtConfig := middleware.DefaultJWTConfig(auth.NewTokenService(cfg.JWT))
	jwtConfig.Logger = log
	if redisStore, ok := store.(*cache.RedisIdempotencyStore); ok {
		jwtConfig.Revocations = auth.NewRedisRevocationList(redisStore.Client())
	}
	return middleware.JWTAuthMiddlewareWithConfig(jwtConfig)
}
