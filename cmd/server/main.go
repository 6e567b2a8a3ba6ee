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
	identityapp "github.com/pos/backend/internal/application/identity"
	receiptapp "github.com/pos/backend/internal/application/receipt"
	saleapp "github.com/pos/backend/internal/application/sale"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/printing"
	"github.com/pos/backend/internal/infrastructure/storage"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/pos/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			POS Backend API
//	@version		1.0
//	@description	Point-of-sale backend: atomic sale commits, sale ledger and receipts.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Telemetry: traces, metrics, logs, profiles. Each is a no-op when disabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdown(log, "tracer provider", tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdown(log, "meter provider", meterProvider.Shutdown)

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	})
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdown(log, "logger provider", loggerProvider.Shutdown)
	log = loggerProvider.Bridge(log, zapcore.InfoLevel)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting POS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:   dbSystem,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	productCatalog := persistence.NewGormProductCatalog(db.DB)
	partyDirectory := persistence.NewGormPartyDirectory(db.DB)
	saleLedger := persistence.NewGormSaleLedger(db.DB)
	businessProfiles := persistence.NewGormBusinessProfileRepository(db.DB)
	authGateway := persistence.NewGormAuthGateway(db.DB)

	// Redis-backed stores, in memory when Redis is disabled
	storeFactory := cache.NewStoreFactory(cfg.Redis, cache.WithLogger(log))
	defer func() {
		if err := storeFactory.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()
	replayStore, err := storeFactory.CreateReplayStore()
	if err != nil {
		log.Fatal("Failed to create commit replay store", zap.Error(err))
	}
	tokenBlacklist, err := storeFactory.CreateTokenBlacklist()
	if err != nil {
		log.Fatal("Failed to create token blacklist", zap.Error(err))
	}

	saleMetrics, err := telemetry.NewSaleMetrics(meterProvider.Meter("pos.sale"))
	if err != nil {
		log.Fatal("Failed to register sale metrics", zap.Error(err))
	}

	// Sale commit and queries
	scope := persistence.NewGormSaleTransactionScope(db.DB, cfg.Sale.LockTimeout)
	coordinator := saleapp.NewCoordinator(scope, saleLedger, saleapp.CoordinatorConfig{
		CommitTimeout: cfg.Sale.CommitTimeout,
		ReplayTTL:     cfg.Sale.ReplayTTL,
	}, log)
	coordinator.SetReplayStore(replayStore)
	coordinator.SetSaleMetrics(saleMetrics)
	queryService := saleapp.NewQueryService(saleLedger)

	// Receipts
	receiptStorage, err := newReceiptStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize receipt storage", zap.Error(err))
	}
	templateEngine, err := printing.NewTemplateEngine(printing.WithLocale(cfg.Receipt.Locale))
	if err != nil {
		log.Fatal("Failed to initialize receipt templates", zap.Error(err))
	}
	pdfRenderer := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Receipt.RenderTimeout,
		RemoteURL:      cfg.Receipt.ChromeRemoteURL,
		NoSandbox:      os.Geteuid() == 0,
		Logger:         log,
	})
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	receiptService := receiptapp.NewService(
		saleLedger, partyDirectory, businessProfiles,
		templateEngine, pdfRenderer, receiptStorage,
		receiptapp.Config{
			LogoPath:      cfg.Receipt.LogoPath,
			RenderTimeout: cfg.Receipt.RenderTimeout,
		},
		log,
	)
	receiptService.SetSaleMetrics(saleMetrics)
	if viewer := printing.NewCommandViewer(cfg.Receipt.ViewerCommand, log); viewer != nil {
		receiptService.SetViewer(viewer)
	}

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(authGateway, jwtService, tokenBlacklist, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id, tracing, recovery, access log, headers, body limit, metrics
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	httpMetrics, err := middleware.HTTPMetrics(meterProvider.Meter("pos.http"))
	if err != nil {
		log.Warn("HTTP metrics disabled", zap.Error(err))
	} else {
		engine.Use(httpMetrics)
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuth(
			middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
				JWTService:     jwtService,
				TokenBlacklist: tokenBlacklist,
				Logger:         log,
			}),
			middleware.TraceAttributes(),
		),
	)
	systemHandler := handler.NewSystemHandler(db, log)
	router.Register(r, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Sale:    handler.NewSaleHandler(coordinator, queryService, receiptService),
		Catalog: handler.NewCatalogHandler(productCatalog, partyDirectory),
		System:  systemHandler,
	})
	r.Setup()

	// Unversioned health check for load balancers
	engine.GET("/health", systemHandler.Health)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown. In-flight commits run detached from the request
	// and finish within their own timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newReceiptStorage picks the receipt store named by receipt.storage
func newReceiptStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (printing.ReceiptStorage, error) {
	if cfg.Receipt.Storage == config.StorageS3 {
		s3Storage, err := storage.NewS3ReceiptStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Info("Receipts stored in S3", zap.String("bucket", s3Storage.Bucket()))
		return s3Storage, nil
	}

	fsStorage, err := printing.NewFileSystemStorage(&printing.FileSystemStorageConfig{
		BasePath: cfg.Receipt.OutputDir,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	log.Info("Receipts stored on disk", zap.String("path", fsStorage.BasePath()))
	return fsStorage, nil
}

func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
