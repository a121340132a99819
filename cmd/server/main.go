package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/procurement/internal/application/outbox"
	partnerapp "github.com/erp/procurement/internal/application/partner"
	procurementapp "github.com/erp/procurement/internal/application/procurement"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/cache"
	"github.com/erp/procurement/internal/infrastructure/config"
	"github.com/erp/procurement/internal/infrastructure/event"
	"github.com/erp/procurement/internal/infrastructure/logger"
	"github.com/erp/procurement/internal/infrastructure/persistence"
	"github.com/erp/procurement/internal/infrastructure/printing"
	"github.com/erp/procurement/internal/infrastructure/storage"
	"github.com/erp/procurement/internal/infrastructure/telemetry"
	"github.com/erp/procurement/internal/interfaces/http/handler"
	"github.com/erp/procurement/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//	@title			Procurement API
//	@version		1.0
//	@description	Purchase orders, suppliers and supplier price lists.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer shutdown(log, "telemetry", providers.Shutdown)
	if providers.Logs.IsEnabled() {
		log = providers.Logs.Bridge(log, zap.InfoLevel)
	}
	meter := providers.MeterFor()

	log.Info("Starting procurement service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	dbMetrics, err := telemetry.NewDBMetrics(meter, sqlDB, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		return fmt.Errorf("db metrics: %w", err)
	}
	defer func() { _ = dbMetrics.Close() }()
	if err := dbMetrics.Instrument(db.DB); err != nil {
		return fmt.Errorf("db metrics: %w", err)
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.InstrumentTracing(db.DB, telemetry.DBTracingConfig{
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBName:          cfg.Database.DBName,
		}, log); err != nil {
			return fmt.Errorf("db tracing: %w", err)
		}
	}
	log.Info("Database connected")

	store, err := cache.NewStore(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	archive, err := storage.NewDocumentArchive(ctx, &cfg.Storage, log)
	if err != nil {
		return err
	}
	printer, err := printing.NewPrinter(&cfg.Printing, log)
	if err != nil {
		return err
	}
	if printer != nil {
		defer func() { _ = printer.Close() }()
	}

	// Repositories write their domain events to the outbox in the same transaction
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	priceListRepo := persistence.NewGormSupplierPriceListRepository(db.DB)
	supplierRepo.SetOutboxEventSaver(outboxPublisher)
	orderRepo.SetOutboxEventSaver(outboxPublisher)
	priceListRepo.SetOutboxEventSaver(outboxPublisher)

	procurementMetrics, err := telemetry.NewProcurementMetrics(meter)
	if err != nil {
		return fmt.Errorf("business metrics: %w", err)
	}

	priceListService := procurementapp.NewPriceListService(priceListRepo, supplierRepo)
	priceListService.SetMetrics(procurementMetrics)
	orderService := procurementapp.NewPurchaseOrderService(orderRepo, supplierRepo)
	orderService.SetPriceQuoter(priceListService)
	orderService.SetMetrics(procurementMetrics)
	supplierService := partnerapp.NewSupplierService(supplierRepo, orderRepo)

	dispatchHandler := procurementapp.NewPurchaseOrderDispatchHandler(archive, cfg.Storage.DispatchPrefix, log)
	if printer != nil {
		dispatchHandler.SetPrinter(printer)
	}

	eventBus := event.NewInMemoryEventBus(log)
	idempotency := []event.IdempotentHandlerOption{
		event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}),
		event.WithIdempotencyMetrics(event.NewIdempotencyMetrics(meter)),
	}
	for _, h := range event.WrapHandlersWithIdempotency([]shared.EventHandler{
		procurementapp.NewSupplierBlacklistedHandler(orderRepo, log),
		dispatchHandler,
	}, store, log, idempotency...) {
		eventBus.Subscribe(h)
	}
	if err := eventBus.Start(ctx); err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	defer shutdown(log, "event bus", eventBus.Stop)

	if cfg.Event.ProcessorEnabled {
		processor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  cfg.Event.CleanupInterval,
		}, log)
		if err := processor.Start(ctx); err != nil {
			return fmt.Errorf("outbox processor: %w", err)
		}
		defer shutdown(log, "outbox processor", processor.Stop)
		log.Info("Outbox processor started",
			zap.Int("batch_size", cfg.Event.BatchSize),
			zap.Duration("poll_interval", cfg.Event.PollInterval),
		)
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	systemHandler.AddCheck("database", db.Ping)
	if redisStore, ok := store.(*cache.RedisIdempotencyStore); ok {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisStore.Client().Ping(ctx).Err()
		})
	}

	engine, err := newEngine(cfg, log, meter, store, systemHandler, router.Handlers{
		PurchaseOrders: handler.NewPurchaseOrderHandler(orderService),
		Suppliers:      handler.NewSupplierHandler(supplierService),
		PriceLists:     handler.NewPriceListHandler(priceListService),
		Outbox:         handler.NewOutboxHandler(outbox.NewService(outboxRepo, log)),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server exited gracefully")
	return nil
}

func shutdown(log *zap.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		log.Error("Error stopping "+name, zap.Error(err))
	}
}
