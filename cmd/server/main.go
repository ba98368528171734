package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	identityapp "github.com/buildpay/backend/internal/application/identity"
	projectapp "github.com/buildpay/backend/internal/application/project"
	"github.com/buildpay/backend/internal/application/subscription"
	"github.com/buildpay/backend/internal/infrastructure/auth"
	"github.com/buildpay/backend/internal/infrastructure/cache"
	"github.com/buildpay/backend/internal/infrastructure/config"
	"github.com/buildpay/backend/internal/infrastructure/email"
	"github.com/buildpay/backend/internal/infrastructure/logger"
	"github.com/buildpay/backend/internal/infrastructure/payment"
	"github.com/buildpay/backend/internal/infrastructure/persistence"
	"github.com/buildpay/backend/internal/infrastructure/printing"
	"github.com/buildpay/backend/internal/infrastructure/storage"
	"github.com/buildpay/backend/internal/infrastructure/telemetry"
	"github.com/buildpay/backend/internal/interfaces/http/handler"
	"github.com/buildpay/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting BuildPay backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	milestoneRepo := persistence.NewGormMilestoneRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)

	// Webhook idempotency store, falling back to in-process when Redis
	// is not reachable
	var idempotency appbilling.IdempotencyStore
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotency = cache.NewMemoryIdempotencyStore()
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		idempotency = cache.NewRedisIdempotencyStore(redisClient)
	}

	var documentStorage appbilling.DocumentStorage
	if cfg.Storage.UseStub {
		log.Warn("Using in-memory document storage, documents will not survive restarts")
		documentStorage = storage.NewMemoryStorage()
	} else {
		documentStorage, err = storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	}

	pdfRenderer := printing.NewChromedpRenderer(cfg.PDF, log)
	defer pdfRenderer.Close()

	emailSender := email.NewSMTPSender(cfg.Email, log)
	gatewayRegistry := payment.NewRegistry(cfg.Payment, log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)

	aggregator := appbilling.NewPaymentAggregatorService(invoiceRepo, billRepo, paymentRepo, log)
	recorder := appbilling.NewPaymentRecorderService(paymentRepo, aggregator, log)
	invoiceService := appbilling.NewInvoiceService(
		invoiceRepo, paymentRepo, aggregator, pdfRenderer, documentStorage, emailSender, log,
	)
	billService := appbilling.NewBillService(billRepo, paymentRepo, log)
	callbackService := appbilling.NewPaymentCallbackService(
		gatewayRegistry, paymentRepo, recorder, idempotency, log,
	)
	projectService := projectapp.NewProjectService(projectRepo, milestoneRepo, invoiceService, log)
	stripeService := subscription.NewStripeWebhookService(cfg.Stripe, companyRepo, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := router.New(router.Config{
		HTTP:        cfg.HTTP,
		Telemetry:   cfg.Telemetry,
		JWTService:  jwtService,
		Logger:      log,
		ServiceName: cfg.Telemetry.ServiceName,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Invoice: handler.NewInvoiceHandler(invoiceService, recorder, aggregator),
		Bill:    handler.NewBillHandler(billService, recorder, aggregator),
		Project: handler.NewProjectHandler(projectService),
		Webhook: handler.NewWebhookHandler(callbackService, stripeService),
		Health:  handler.NewHealthHandler(db.DB, version),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
