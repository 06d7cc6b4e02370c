package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/Honest-88/pos-sample/internal/application/catalog"
	identityapp "github.com/Honest-88/pos-sample/internal/application/identity"
	partnerapp "github.com/Honest-88/pos-sample/internal/application/partner"
	printingapp "github.com/Honest-88/pos-sample/internal/application/printing"
	reportapp "github.com/Honest-88/pos-sample/internal/application/report"
	salesapp "github.com/Honest-88/pos-sample/internal/application/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/Honest-88/pos-sample/internal/infrastructure/auth"
	"github.com/Honest-88/pos-sample/internal/infrastructure/cache"
	"github.com/Honest-88/pos-sample/internal/infrastructure/config"
	"github.com/Honest-88/pos-sample/internal/infrastructure/event"
	"github.com/Honest-88/pos-sample/internal/infrastructure/logger"
	"github.com/Honest-88/pos-sample/internal/infrastructure/persistence"
	"github.com/Honest-88/pos-sample/internal/infrastructure/printing"
	"github.com/Honest-88/pos-sample/internal/infrastructure/storage"
	"github.com/Honest-88/pos-sample/internal/infrastructure/telemetry"
	"github.com/Honest-88/pos-sample/internal/interfaces/http/handler"
	"github.com/Honest-88/pos-sample/internal/interfaces/http/middleware"
	"github.com/Honest-88/pos-sample/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/Honest-88/pos-sample/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			POS Backend API
//	@version		1.0
//	@description	Point-of-sale settlement backend: catalog, customers, sales, receipts and profit reports.

//	@contact.name	API Support
//	@contact.url	https://github.com/Honest-88/pos-sample

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// The bootstrap logger reports telemetry setup, the final logger also ships to OTLP
	bootLog, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFrom(cfg.Telemetry), bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log, err := logger.New(logger.FromAppConfig(cfg.Log), logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracerConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Telemetry.SpanProfilesEnabled {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}
	defer shutdownTelemetry(log, tracerProvider, meterProvider, logProvider, profiler)

	// Database
	gormLog := logger.NewSQLLogger(log, logger.SQLLogConfig{
		Level:         logger.ParseSQLLogLevel(cfg.Log.Level),
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
	})
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database.Driver), log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Redis backs the idempotency store and the token blacklist; both degrade without it
	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(ctx, cfg.Redis); err != nil {
		log.Warn("Redis unavailable", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
	} else {
		redisClient = client
		defer func() {
			_ = redisClient.Close()
		}()
	}

	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		var client redis.UniversalClient
		if redisClient != nil {
			client = redisClient
		}
		idempotencyStore, err = cache.NewIdempotencyStoreFactory(cfg.Idempotency, cache.WithLogger(log)).CreateStore(ctx, client)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() {
			_ = idempotencyStore.Close()
		}()
	}

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient, "pos:jwt:blacklist:")
	}

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	reportLocation, err := cfg.Report.Location()
	if err != nil {
		log.Fatal("Invalid report timezone", zap.String("timezone", cfg.Report.Timezone), zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	settlementService := salesapp.NewSettlementService(txScope, saleRepo, log)
	reportService := reportapp.NewReportService(reportRepo, productRepo, reportLocation)

	pdfRenderer := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		ExecPath:       cfg.Printing.ChromePath,
		NoSandbox:      true,
		PaperWidthMM:   cfg.Printing.PaperWidthMM,
		Logger:         log,
	})
	defer func() {
		_ = pdfRenderer.Close()
	}()
	receiptService := printingapp.NewReceiptService(
		saleRepo, productRepo, customerRepo,
		printing.NewTemplateEngine(),
		pdfRenderer,
		printingapp.ReceiptConfig{
			StoreName:    cfg.Printing.StoreName,
			PaperWidthMM: cfg.Printing.PaperWidthMM,
			Location:     reportLocation,
		},
		log,
	)

	if _, err := authService.Bootstrap(ctx, cfg.Auth.BootstrapUser, cfg.Auth.BootstrapPassword); err != nil {
		log.Fatal("Failed to create bootstrap user", zap.Error(err))
	}

	// Domain events: metrics and receipt archiving react to recorded sales
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())
	settlementService.SetEventPublisher(eventBus)

	if meterProvider.IsEnabled() {
		salesMetrics, err := telemetry.NewSalesMetrics(meterProvider.Meter("pos.sales"), log)
		if err != nil {
			log.Fatal("Failed to create sales metrics", zap.Error(err))
		}
		settlementService.SetObserver(salesMetrics)
		eventBus.Subscribe(salesMetrics, salesMetrics.EventTypes()...)
	}

	if cfg.Printing.ArchiveEnabled {
		archive, err := storage.New(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
		archiveHandler := printingapp.NewReceiptArchiveHandler(receiptService, archive, log)
		eventBus.Subscribe(archiveHandler, archiveHandler.EventTypes()...)
		log.Info("Receipt archiving enabled", zap.String("driver", cfg.Storage.Driver))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	tracingCfg.Enabled = tracerProvider.IsEnabled()

	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = profiler.IsEnabled()

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.TracingWithConfig(tracingCfg),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{MeterProvider: meterProvider, Logger: log}),
		middleware.ProfilingWithConfig(profilingCfg),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
			AllowMethods:  cfg.HTTP.CORSAllowMethods,
			AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, db)
	engine.GET("/health", systemHandler.Health)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.App.Env == "production",
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var routeMW router.RouteMiddleware
	if cfg.HTTP.LoginRateLimit > 0 {
		loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
		defer loginLimiter.Stop()
		routeMW.Login = middleware.RateLimit(loginLimiter)
	}
	if idempotencyStore != nil {
		routeMW.RecordSale = middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(jwtMiddleware, middleware.TracingAttributeInjector())
	router.RegisterAPI(r, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Category: handler.NewCategoryHandler(categoryService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Sales:    handler.NewSalesHandler(settlementService),
		Receipt:  handler.NewReceiptHandler(receiptService),
		Report:   handler.NewReportHandler(reportService),
		System:   systemHandler,
	}, routeMW).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func shutdownTelemetry(
	log *zap.Logger,
	tp *telemetry.TracerProvider,
	mp *telemetry.MeterProvider,
	lp *telemetry.LoggerProvider,
	profiler *telemetry.Profiler,
) {
	ctx := context.Background()
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	// Last, so the errors above are still exported
	if err := lp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}
