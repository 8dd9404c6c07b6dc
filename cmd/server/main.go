package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	catalogapp "github.com/warehouse/backend/internal/application/catalog"
	docapp "github.com/warehouse/backend/internal/application/document"
	inventoryapp "github.com/warehouse/backend/internal/application/inventory"
	"github.com/warehouse/backend/internal/infrastructure/cache"
	"github.com/warehouse/backend/internal/infrastructure/config"
	"github.com/warehouse/backend/internal/infrastructure/event"
	"github.com/warehouse/backend/internal/infrastructure/logger"
	"github.com/warehouse/backend/internal/infrastructure/persistence"
	"github.com/warehouse/backend/internal/infrastructure/telemetry"
	"github.com/warehouse/backend/internal/interfaces/http/handler"
	"github.com/warehouse/backend/internal/interfaces/http/middleware"
	"github.com/warehouse/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting warehouse backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database connection with zap-backed gorm logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockLevelRepo := persistence.NewGormStockLevelRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	reorderAlertHandler := inventoryapp.NewReorderAlertHandler(log)
	eventBus.Subscribe(reorderAlertHandler)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Stock snapshot cache
	cacheFactory := cache.NewStockCacheFactory(cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	stockCache, err := cacheFactory.Create()
	if err != nil {
		log.Fatal("Failed to initialize stock cache", zap.Error(err))
	}
	defer func() {
		if closer, ok := stockCache.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				log.Error("Error closing stock cache", zap.Error(err))
			}
		}
	}()

	// Stock application engine
	scope := persistence.NewGormTransactionScope(db.DB)
	engine := inventoryapp.NewStockApplicationEngine(scope, eventBus, log,
		inventoryapp.WithRetries(cfg.Engine.ProcessRetries),
		inventoryapp.WithRetryBackoff(cfg.Engine.RetryBackoff),
		inventoryapp.WithCache(stockCache),
	)

	// Application services
	productService := catalogapp.NewProductService(productRepo, stockLevelRepo)
	warehouseService := catalogapp.NewWarehouseService(warehouseRepo, stockLevelRepo)

	stockService := inventoryapp.NewStockQueryService(stockLevelRepo, movementRepo, log)
	stockService.SetCache(stockCache)

	receiptService := docapp.NewReceiptService(receiptRepo, productRepo, warehouseRepo, scope, engine)
	deliveryService := docapp.NewDeliveryService(deliveryRepo, productRepo, warehouseRepo, stockLevelRepo, scope, engine)
	transferService := docapp.NewTransferService(transferRepo, productRepo, warehouseRepo, scope, engine)
	adjustmentService := docapp.NewAdjustmentService(adjustmentRepo, productRepo, warehouseRepo, stockLevelRepo, scope, engine)

	receiptService.SetEventPublisher(eventBus)
	deliveryService.SetEventPublisher(eventBus)
	transferService.SetEventPublisher(eventBus)
	adjustmentService.SetEventPublisher(eventBus)

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	stockHandler := handler.NewStockHandler(stockService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	transferHandler := handler.NewTransferHandler(transferService)
	adjustmentHandler := handler.NewAdjustmentHandler(adjustmentService)
	systemHandler := handler.NewSystemHandler(db.DB, cfg.App.Name)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engineHTTP := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engineHTTP.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engineHTTP.Use(middleware.RequestID())
	engineHTTP.Use(logger.Recovery(log))
	engineHTTP.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engineHTTP.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engineHTTP.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engineHTTP.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Routes
	r := router.NewRouter(engineHTTP, router.WithAPIVersion("v1"))
	r.Register(systemHandler)
	r.Register(productHandler)
	r.Register(warehouseHandler)
	r.Register(stockHandler)
	r.Register(receiptHandler)
	r.Register(deliveryHandler)
	r.Register(transferHandler)
	r.Register(adjustmentHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engineHTTP,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
