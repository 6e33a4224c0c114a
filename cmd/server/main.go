package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	complianceapp "github.com/scms/backend/internal/application/compliance"
	eventapp "github.com/scms/backend/internal/application/event"
	integrityapp "github.com/scms/backend/internal/application/integrity"
	mailroomapp "github.com/scms/backend/internal/application/mailroom"
	"github.com/scms/backend/internal/domain/mailroom"
	"github.com/scms/backend/internal/infrastructure/cache"
	"github.com/scms/backend/internal/infrastructure/config"
	"github.com/scms/backend/internal/infrastructure/event"
	"github.com/scms/backend/internal/infrastructure/logger"
	"github.com/scms/backend/internal/infrastructure/persistence"
	"github.com/scms/backend/internal/infrastructure/telemetry"
	"github.com/scms/backend/internal/interfaces/http/handler"
	"github.com/scms/backend/internal/interfaces/http/middleware"
	"github.com/scms/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
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

	log.Info("Starting SCMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize telemetry providers. All of them degrade to no-ops when
	// telemetry is disabled in config.
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
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()

	// Bridge application logs to the OTEL Collector alongside stdout
	if logsProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: logsProvider,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore,
			zap.AddCaller(),
		)
	}

	// Continuous profiling via Pyroscope (optional)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		ProfileCPU:        true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Link traces to profiles when both are active
	if tracerProvider.IsEnabled() && profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing and metrics (config-gated)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}

		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("scms-backend/db"), telemetry.DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Warn("Failed to create database metrics", zap.Error(err))
		} else if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
			log.Warn("Failed to register database metrics plugin", zap.Error(err))
		}
	}

	// Initialize repositories
	checkRunRepo := persistence.NewGormCheckRunRepository(db.DB)
	journalRepo := persistence.NewGormJournalRepository(db.DB)
	inboundEmailRepo := persistence.NewGormInboundEmailRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Check run state changes publish domain events through the outbox so
	// delivery survives crashes between the DB write and the bus publish
	checkRunRepo.SetOutboxEventSaver(outboxPublisher)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor drains the outbox table onto the event bus
	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	if cfg.Event.BatchSize > 0 {
		outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
	}
	if cfg.Event.PollInterval > 0 {
		outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
	}
	outboxProcessorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
	if cfg.Event.CleanupRetention > 0 {
		outboxProcessorConfig.CleanupRetention = cfg.Event.CleanupRetention
	}

	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Journal cache: Redis with in-process fallback
	journalCache := cache.NewJournalCache(cfg.Redis, log)
	defer func() {
		if err := journalCache.Close(); err != nil {
			log.Error("Error closing journal cache", zap.Error(err))
		}
	}()

	// Idempotency store for inbound email deduplication
	dedupFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	dedupStore, err := dedupFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := dedupStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Mailroom dispatch table: kind -> handler, fallback logs and stores
	dispatcher := mailroom.NewDispatcher(map[mailroom.EmailKind]mailroom.Handler{
		mailroom.KindIntegrityReport:   mailroomapp.NewIntegrityReportHandler(log),
		mailroom.KindSubmissionReceipt: mailroomapp.NewSubmissionReceiptHandler(log),
	}).WithFallback(mailroomapp.NewLoggingFallback(log))

	senderPolicy := mailroom.NewSenderPolicy(cfg.Mailroom.AllowedSenderDomains)

	// Initialize application services
	checkService := integrityapp.NewCheckService(checkRunRepo, log)
	journalService := complianceapp.NewJournalService(journalRepo, journalCache, log)
	inboundEmailService := mailroomapp.NewInboundEmailService(
		inboundEmailRepo, senderPolicy, dispatcher, dedupStore, eventBus, log,
	)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Domain metrics with periodic outbox backlog collection
	var checkMetrics *telemetry.CheckMetrics
	if meterProvider.IsEnabled() {
		checkMetrics, err = telemetry.NewCheckMetrics(telemetry.CheckMetricsConfig{
			Meter:          meterProvider.Meter("scms-backend/domain"),
			Logger:         log,
			OutboxProvider: telemetry.NewGormOutboxMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to create domain metrics", zap.Error(err))
			checkMetrics = nil
		} else {
			checkMetrics.StartPeriodicCollection(ctx, time.Minute)
			defer checkMetrics.Stop()
		}
	}

	// Initialize HTTP handlers
	checkHandler := handler.NewCheckHandler(checkService, checkMetrics)
	journalHandler := handler.NewJournalHandler(journalService)
	proofigWebhookHandler := handler.NewProofigWebhookHandler(checkService, cfg.Webhook.ProofigToken, checkMetrics, log)
	emailWebhookHandler := handler.NewEmailWebhookHandler(inboundEmailService, checkMetrics)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. Tracing - OpenTelemetry spans (config-gated)
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("scms-backend/http"), true))
	}
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Webhook endpoints live outside API versioning: external providers call
	// them directly and their lifecycle is pinned by provider configuration.
	// They get a tighter body cap and their own rate limit bucket.
	webhookLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	webhooks := engine.Group("/webhooks")
	webhooks.Use(middleware.BodyLimit(cfg.Webhook.MaxBodySize))
	webhooks.Use(middleware.WebhookRateLimit(webhookLimiter))
	webhooks.POST("/proofig/:id", proofigWebhookHandler.Handle)
	webhooks.POST("/email", emailWebhookHandler.Receive)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Integrity domain (check runs)
	checkRoutes := router.NewDomainGroup("checks", "/checks")
	checkRoutes.POST("", checkHandler.StartCheck)
	checkRoutes.GET("/:id", checkHandler.GetCheck)
	checkRoutes.GET("/:id/stages", checkHandler.GetStages)
	checkRoutes.GET("/:id/summary", checkHandler.GetSummary)
	checkRoutes.POST("/:id/confirm", checkHandler.ConfirmSubmission)

	// Compliance domain (journal directory)
	journalRoutes := router.NewDomainGroup("journals", "/journals")
	journalRoutes.GET("/lookup", journalHandler.Lookup)
	journalRoutes.POST("", journalHandler.Register)
	journalRoutes.POST("/classify", journalHandler.Classify)

	// System routes (ping, info, outbox administration)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	systemRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)

	r.Register(checkRoutes).
		Register(journalRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
