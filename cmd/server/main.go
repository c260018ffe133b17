package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	appevent "github.com/marketplace/backend/internal/application/event"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	partnerapp "github.com/marketplace/backend/internal/application/partner"
	paymentapp "github.com/marketplace/backend/internal/application/payment"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	wholesaleapp "github.com/marketplace/backend/internal/application/wholesale"
	"github.com/marketplace/backend/internal/domain/identity"
	domainpayment "github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/event"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/payment"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/printing"
	"github.com/marketplace/backend/internal/infrastructure/scheduler"
	"github.com/marketplace/backend/internal/infrastructure/storage"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Marketplace Backend API
//	@version		1.0
//	@description	Multi-seller wholesale marketplace backend - quotations, partner buyers, split payments
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/marketplace/backend
//	@contact.email	support@marketplace.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

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

	log.Info("Starting Marketplace Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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

	// Initialize telemetry (no-op providers when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
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
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database query tracing
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	imageRepo := persistence.NewGormProductImageRepository(db.DB)
	buyerRepo := persistence.NewGormBuyerRepository(db.DB)
	termsRepo := persistence.NewGormTermsRepository(db.DB)
	invitationRepo := persistence.NewGormInvitationRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Token blacklist backs logout; fall back to in-memory when Redis is down
	var tokenBlacklist identity.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
	}

	// Webhook dedupe store (Redis with in-memory fallback)
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	webhookEventStore, ok := idempotencyStore.(domainpayment.WebhookEventStore)
	if !ok {
		log.Fatal("Idempotency store does not support webhook deduplication")
	}

	// Stripe payment gateway
	gateway, err := payment.NewStripeGateway(&cfg.Stripe, log)
	if err != nil {
		log.Fatal("Failed to initialize Stripe gateway", zap.Error(err))
	}

	// Object storage for product images (stub when no bucket configured)
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage initialized",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("endpoint", cfg.Storage.Endpoint),
		)
	} else {
		log.Warn("No storage bucket configured, using stub object storage")
		objectStorage = storage.NewStubObjectStorage()
	}

	// PDF renderer for quotation documents
	pdfRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		NoSandbox: true,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Initialize event bus and activity logging
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appevent.NewActivityLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(ctx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	productService.SetEventPublisher(eventBus)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	categoryService.SetEventPublisher(eventBus)

	imageConfig := catalogapp.DefaultImageServiceConfig()
	if cfg.Storage.PresignExpiration > 0 {
		imageConfig.UploadURLExpiry = cfg.Storage.PresignExpiration
		imageConfig.DownloadURLExpiry = cfg.Storage.PresignExpiration
	}
	imageService := catalogapp.NewImageService(imageRepo, productRepo, objectStorage, imageConfig)

	buyerService := partnerapp.NewBuyerService(buyerRepo)
	buyerService.SetEventPublisher(eventBus)
	termsService := wholesaleapp.NewTermsService(termsRepo)
	termsService.SetEventPublisher(eventBus)
	invitationService := wholesaleapp.NewInvitationService(invitationRepo, buyerRepo)
	invitationService.SetEventPublisher(eventBus)

	quotationService := tradeapp.NewQuotationService(quotationRepo, buyerRepo, productRepo, termsRepo, paymentRepo, gateway)
	quotationService.SetEventPublisher(eventBus)
	quotationService.SetDocumentRenderer(pdfRenderer)

	orderService := tradeapp.NewOrderService(orderRepo, quotationRepo, buyerRepo, productRepo, termsRepo, paymentRepo, gateway)
	orderService.SetEventPublisher(eventBus)

	paymentService := paymentapp.NewPaymentService(paymentRepo, quotationRepo, orderRepo, gateway, webhookEventStore)
	paymentService.SetEventPublisher(eventBus)

	// Identity services (auth, user, seller)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, sellerRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)
	sellerService := identityapp.NewSellerService(sellerRepo, userRepo, log)

	// Business metrics over the meter provider
	if cfg.Telemetry.Enabled {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("marketplace.business"),
			Logger:        log,
			TradeProvider: telemetry.NewGormTradeMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(context.Background(), telemetry.NewGormSellerProvider(db.DB), 5*time.Minute)
		}
	}

	// Background sweepers for lifecycle expiry and stale resources
	sweeper := scheduler.NewSweeper(scheduler.DefaultSweeperConfig(), log)
	sweeper.AddTask(scheduler.SweepTask{
		Name:     "quotation-expiry",
		Interval: cfg.Quotation.SweepInterval,
		Run: func(ctx context.Context) (int, error) {
			return quotationService.ExpireSweep(ctx, 100)
		},
	})
	sweeper.AddTask(scheduler.SweepTask{
		Name:     "invitation-expiry",
		Interval: cfg.Quotation.SweepInterval,
		Run: func(ctx context.Context) (int, error) {
			return invitationService.ExpireSweep(ctx, 100)
		},
	})
	sweeper.AddTask(scheduler.SweepTask{
		Name:     "stale-payments",
		Interval: cfg.Stripe.SweepInterval,
		Run: func(ctx context.Context) (int, error) {
			return paymentService.SweepStalePending(ctx, cfg.Stripe.PendingMaxAge, cfg.Stripe.SweepBatchSize)
		},
	})
	sweeper.AddTask(scheduler.SweepTask{
		Name:     "stale-images",
		Interval: cfg.Stripe.SweepInterval,
		Run: func(ctx context.Context) (int, error) {
			return imageService.CleanupStalePending(ctx, 100)
		},
	})
	if err := sweeper.Start(context.Background()); err != nil {
		log.Fatal("Failed to start sweeper", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sweeper.Stop(ctx); err != nil {
			log.Error("Error stopping sweeper", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	sellerHandler := handler.NewSellerHandler(sellerService)
	productHandler := handler.NewProductHandler(productService, sellerService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	imageHandler := handler.NewImageHandler(imageService)
	buyerHandler := handler.NewBuyerHandler(buyerService)
	termsHandler := handler.NewTermsHandler(termsService, sellerService)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	orderHandler := handler.NewOrderHandler(orderService, sellerService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	webhookHandler := handler.NewWebhookHandler(paymentService)
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
	// 4. Tracing - Propagate OpenTelemetry spans
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())

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

	// Stricter rate limiting for credential endpoints
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit := middleware.AuthRateLimit(authLimiter)
		engine.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/v1/auth/") {
				authLimit(c)
				return
			}
			c.Next()
		})
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/register",
			"/api/v1/auth/refresh",
			"/api/v1/sellers/register",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/public",
			"/api/v1/webhooks",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Seller scoping: resolve the acting storefront from JWT claims or the
	// X-Seller-ID header, validated against the seller directory
	sellerDirectory := &sellerDirectoryAdapter{sellers: sellerService}
	r.Use(middleware.SellerMiddlewareWithConfig(middleware.SellerMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/register",
			"/api/v1/auth/refresh",
			"/api/v1/sellers/register",
			"/api/v1/system/ping",
			"/api/v1/system/info",
			"/api/v1/public",
			"/api/v1/webhooks",
		},
		Required:  false,
		Validator: sellerDirectory,
		Logger:    log,
	}))

	// Register API routes
	r.Register(systemHandler)
	r.Register(authHandler)
	r.Register(userHandler)
	r.Register(sellerHandler)
	r.Register(productHandler)
	r.Register(categoryHandler)
	r.Register(imageHandler)
	r.Register(buyerHandler)
	r.Register(termsHandler)
	r.Register(invitationHandler)
	r.Register(quotationHandler)
	r.Register(orderHandler)
	r.Register(paymentHandler)
	r.Register(webhookHandler)
	r.Setup()

	// Create HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// sellerDirectoryAdapter exposes the seller application service to the seller
// middleware, which needs synchronous lookups during request handling.
type sellerDirectoryAdapter struct {
	sellers *identityapp.SellerService
}

func (a *sellerDirectoryAdapter) ValidateSeller(sellerID string) (*middleware.SellerInfo, error) {
	id, err := uuid.Parse(sellerID)
	if err != nil {
		return nil, err
	}
	seller, err := a.sellers.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if seller.Status != identity.SellerStatusActive {
		return nil, shared.NewDomainError("SELLER_NOT_ACTIVE", "Storefront is not active")
	}
	return &middleware.SellerInfo{ID: seller.ID, Slug: seller.Slug}, nil
}

func (a *sellerDirectoryAdapter) ResolveSlug(slug string) (*middleware.SellerInfo, error) {
	seller, err := a.sellers.GetBySlug(context.Background(), slug)
	if err != nil {
		return nil, err
	}
	if seller.Status != identity.SellerStatusActive {
		return nil, shared.NewDomainError("SELLER_NOT_ACTIVE", "Storefront is not active")
	}
	return &middleware.SellerInfo{ID: seller.ID, Slug: seller.Slug}, nil
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
