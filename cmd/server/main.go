package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assetsapp "github.com/m77ag/backend/internal/application/assets"
	billingapp "github.com/m77ag/backend/internal/application/billing"
	bookingapp "github.com/m77ag/backend/internal/application/booking"
	croppingapp "github.com/m77ag/backend/internal/application/cropping"
	financeapp "github.com/m77ag/backend/internal/application/finance"
	herdapp "github.com/m77ag/backend/internal/application/herd"
	identityapp "github.com/m77ag/backend/internal/application/identity"
	"github.com/m77ag/backend/internal/application/notification"
	reportapp "github.com/m77ag/backend/internal/application/report"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/auth"
	"github.com/m77ag/backend/internal/infrastructure/billing"
	"github.com/m77ag/backend/internal/infrastructure/cache"
	"github.com/m77ag/backend/internal/infrastructure/config"
	"github.com/m77ag/backend/internal/infrastructure/event"
	"github.com/m77ag/backend/internal/infrastructure/export"
	"github.com/m77ag/backend/internal/infrastructure/logger"
	"github.com/m77ag/backend/internal/infrastructure/messaging"
	"github.com/m77ag/backend/internal/infrastructure/persistence"
	"github.com/m77ag/backend/internal/infrastructure/scheduler"
	"github.com/m77ag/backend/internal/infrastructure/storage"
	"github.com/m77ag/backend/internal/infrastructure/telemetry"
	"github.com/m77ag/backend/internal/interfaces/http/handler"
	"github.com/m77ag/backend/internal/interfaces/http/middleware"
	"github.com/m77ag/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting farm back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	rootCtx := context.Background()

	tracer, err := telemetry.NewTracerProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.App.Env == "development",
			SlowQueryThresh: 200 * time.Millisecond,
			DBSystem:        "postgresql",
		}, log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Production schemas come from cmd/migrate
	if cfg.App.Env == "development" {
		if err := db.AutoMigrate(rootCtx); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	stores := cache.NewStores(cfg.Redis, log)
	entities := shared.NewLegalEntities(cfg.Farm.Entities...)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	cattleRepo := persistence.NewGormCattleRepository(db.DB)
	fieldRepo := persistence.NewGormFieldRepository(db.DB)
	productionRepo := persistence.NewGormProductionRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	investmentRepo := persistence.NewGormCapitalInvestmentRepository(db.DB)
	loanRepo := persistence.NewGormLoanRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	equipmentRepo := persistence.NewGormEquipmentRepository(db.DB)
	realEstateRepo := persistence.NewGormRealEstateRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	offerRepo := persistence.NewGormOfferRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.JWT.MaxLoginAttempts,
		LockDuration:     cfg.JWT.LockDuration,
	}, log)

	cattleService := herdapp.NewCattleService(cattleRepo, txScope, log)

	fieldService := croppingapp.NewFieldService(fieldRepo, productionRepo, entities, log)
	expenseService := croppingapp.NewExpenseService(expenseRepo, txScope, log)

	accountService := financeapp.NewAccountService(bankAccountRepo, transactionRepo, investmentRepo, loanRepo, entities, log)
	loanService := financeapp.NewLoanService(loanRepo, investmentRepo, entities, log)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, financeapp.InvoiceSettings{
		Prefix:  cfg.Farm.InvoicePrefix,
		DueDays: cfg.Farm.InvoiceDueDays,
	}, log)
	ledgerService := financeapp.NewLedgerService(ledgerRepo, log)
	refreshService := financeapp.NewStatusRefreshService(invoiceRepo, ledgerRepo, log)

	assetService := assetsapp.NewAssetService(equipmentRepo, realEstateRepo, adjustmentRepo, entities, log)
	netWorthService := assetsapp.NewNetWorthService(assetsapp.NetWorthSources{
		Equipment:          equipmentRepo,
		RealEstate:         realEstateRepo,
		Adjustments:        adjustmentRepo,
		Fields:             fieldRepo,
		CapitalInvestments: investmentRepo,
		Loans:              loanRepo,
	}, entities, cfg.Farm.FarmlandEntity, log)

	bookingService := bookingapp.NewBookingService(bookingRepo, invoiceService, txScope, log)
	offerService := bookingapp.NewOfferService(offerRepo, equipmentRepo, log)

	overviewService := reportapp.NewOverviewService(reportapp.Sources{
		BankAccounts:       bankAccountRepo,
		Invoices:           invoiceRepo,
		CapitalInvestments: investmentRepo,
		Loans:              loanRepo,
		Transactions:       transactionRepo,
		Equipment:          equipmentRepo,
		Cattle:             cattleRepo,
	}, stores.Reports, cfg.Cache.OverviewTTL, export.WriteBankerOverview, log)

	webhookService := billingapp.NewStripeWebhookService(billingapp.StripeWebhookServiceConfig{
		WebhookSecret:  cfg.Stripe.WebhookSecret,
		OfferRepo:      offerRepo,
		TxScope:        txScope,
		Idempotency:    stores.Idempotency,
		IdempotencyTTL: cfg.Cache.IdempotencyTTL,
		Logger:         log,
	})

	if cfg.Stripe.SecretKey != "" {
		payments, err := billing.NewStripeAdapter(&billing.StripeConfig{
			SecretKey:  cfg.Stripe.SecretKey,
			IsTestMode: cfg.Stripe.TestMode,
			Currency:   cfg.Farm.Currency,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe", zap.Error(err))
		}
		offerService.SetPaymentRequester(payments)
		log.Info("Card payments enabled for equipment offers")
	}

	if cfg.Storage.Enabled {
		receipts, err := storage.NewS3ReceiptStorage(rootCtx, cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize receipt storage", zap.Error(err))
		}
		expenseService.SetReceiptStorage(receipts)
		log.Info("Receipt storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Domain events: mail out and overview cache invalidation
	var notifier notification.Notifier = messaging.NewLogNotifier()
	var amqpNotifier *messaging.AMQPNotifier
	if cfg.AMQP.Enabled {
		amqpNotifier, err = messaging.NewAMQPNotifier(cfg.AMQP)
		if err != nil {
			log.Fatal("Failed to connect to mail queue", zap.Error(err))
		}
		notifier = amqpNotifier
		log.Info("Mail queue enabled", zap.String("exchange", cfg.AMQP.Exchange))
	}

	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())
	eventBus.Subscribe(notification.NewEmailHandler(notifier, cfg.Farm.Entities[0], log))
	eventBus.Subscribe(reportapp.NewOverviewInvalidationHandler(overviewService, log))
	invoiceService.SetEventPublisher(eventBus)
	loanService.SetEventPublisher(eventBus)
	bookingService.SetEventPublisher(eventBus)
	offerService.SetEventPublisher(eventBus)
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	if cfg.App.AdminEmail != "" {
		created, err := authService.EnsureAdmin(rootCtx, cfg.App.AdminEmail, cfg.App.AdminPassword)
		if err != nil {
			log.Fatal("Failed to create administrator", zap.Error(err))
		}
		if created {
			log.Info("Administrator created", zap.String("email", cfg.App.AdminEmail))
		}
	}

	// Nightly overdue sweep
	var (
		maintenance *scheduler.Scheduler
		trigger     *scheduler.CronTrigger
	)
	if cfg.Scheduler.Enabled {
		maintenance = scheduler.NewScheduler(scheduler.SchedulerConfig{
			MaxConcurrentJobs: 1,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.MaxRetries,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, log)
		if err := scheduler.RegisterMaintenance(maintenance, refreshService, overviewService, log); err != nil {
			log.Fatal("Failed to register maintenance tasks", zap.Error(err))
		}
		trigger = scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			DailyHour:     cfg.Scheduler.RunHour,
			DailyMinute:   cfg.Scheduler.RunMinute,
			CheckInterval: cfg.Scheduler.CheckInterval,
		}, maintenance, log)
		if err := maintenance.Start(rootCtx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		if err := trigger.Start(rootCtx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	apiLimiter := middleware.NewRateLimiter(600, time.Minute)
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log

	// Body limits are applied per route group, see router.FarmRoutes
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		logger.GinMiddleware(log),
		middleware.SecureHeaders(cfg.App.Env == "production"),
		middleware.CORS(corsConfig),
		middleware.RateLimit(apiLimiter),
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.SpanAttributes(),
	)

	checks := map[string]handler.Pinger{"database": db}
	if cfg.Redis.Enabled {
		checks["redis"] = stores
	}
	systemHandler := handler.NewSystemHandler(version, checks)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	engine.GET(r.BasePath()+"/health", systemHandler.Health)

	r.Register(router.FarmRoutes(router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Herd:     handler.NewHerdHandler(cattleService),
		Finance: handler.NewFinanceHandler(handler.FinanceServices{
			Accounts: accountService,
			Invoices: invoiceService,
			Ledger:   ledgerService,
			Loans:    loanService,
			Refresh:  refreshService,
		}),
		Cropping: handler.NewCroppingHandler(fieldService, expenseService),
		Assets:   handler.NewAssetHandler(assetService),
		Booking:  handler.NewBookingHandler(bookingService, offerService),
		Report:   handler.NewReportHandler(overviewService, netWorthService),
		Webhook:  handler.NewStripeWebhookHandler(webhookService),
	}, router.Limits{
		MaxBodySize:   cfg.HTTP.MaxBodySize,
		MaxUploadSize: cfg.HTTP.MaxUploadSize,
		LoginLimit:    middleware.RateLimit(loginLimiter),
	})...).Setup()
	log.Info("Routes registered", zap.Int("count", len(r.Routes())))

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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		if err := trigger.Stop(ctx); err != nil {
			log.Warn("Cron trigger stop failed", zap.Error(err))
		}
		if err := maintenance.Stop(ctx); err != nil {
			log.Warn("Scheduler stop failed", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Event bus stop failed", zap.Error(err))
	}
	apiLimiter.Stop()
	loginLimiter.Stop()
	if amqpNotifier != nil {
		if err := amqpNotifier.Close(); err != nil {
			log.Warn("Mail queue close failed", zap.Error(err))
		}
	}
	if err := stores.Close(); err != nil {
		log.Warn("Cache close failed", zap.Error(err))
	}
	if err := tracer.Shutdown(ctx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
