package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trafficshawarma/storefront/internal/background"
	"github.com/trafficshawarma/storefront/internal/config"
	"github.com/trafficshawarma/storefront/internal/database"
	"github.com/trafficshawarma/storefront/internal/handlers"
	"github.com/trafficshawarma/storefront/internal/kvstore"
	middlewareCustom "github.com/trafficshawarma/storefront/internal/middleware"
	"github.com/trafficshawarma/storefront/internal/payments"
	"github.com/trafficshawarma/storefront/internal/routes"
	"github.com/trafficshawarma/storefront/internal/services"
	pkghttp "github.com/trafficshawarma/storefront/pkg/http"
	pkglogger "github.com/trafficshawarma/storefront/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	store := kvstore.NewPostgresStore(db)
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Core services
	credentialService := services.NewCredentialService(store, config.DefaultAdminUsername, config.DefaultAdminPassword, logger)
	rateLimitService := services.NewRateLimitService(store, services.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxAttempts,
		AttemptWindow:   cfg.Auth.AttemptWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	}, logger)
	sessionService := services.NewSessionService(store, services.SessionConfig{
		SessionDuration: cfg.Auth.SessionDuration,
		ActivityTimeout: cfg.Auth.ActivityTimeout,
	}, logger)
	authService := services.NewAuthService(store, credentialService, rateLimitService, sessionService, logger, auditLogger)

	// Order confirmation email via SES when configured
	var emailService services.EmailService
	if cfg.Email.Enabled() {
		sesService, err := services.NewAWSSESEmailService(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
		emailService = sesService
	} else {
		logger.Warn("email not configured, order confirmations disabled")
		emailService = services.NewNoopEmailService(logger)
	}

	paystackClient := payments.NewClient(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL, logger)
	if !paystackClient.Configured() {
		logger.Warn("PAYSTACK_SECRET_KEY not set, payment initialization will fail")
	}

	menuService := services.NewMenuService(store, logger)
	orderService := services.NewOrderService(store, paystackClient, emailService, logger)
	settingsService := services.NewSettingsService(store, logger)

	// Seed the admin credential record before the first login arrives.
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := credentialService.EnsureInitialized(initCtx); err != nil {
		initCancel()
		logger.Error("failed to initialize admin credentials", slog.Any("error", err))
		os.Exit(1)
	}
	initCancel()

	// Handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, credentialService, auditLogger, ipConfig)
	menuHandler := handlers.NewMenuHandler(menuService, auditLogger)
	orderHandler := handlers.NewOrderHandler(orderService, auditLogger)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditLogger)

	// Background sweep of expired store records
	cleanupManager := background.NewCleanupManager(store, logger,
		cfg.Auth.CleanupInterval, cfg.Auth.AttemptWindow, cfg.Auth.LockoutDuration)

	// Setup router
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, healthHandler, authHandler, menuHandler, orderHandler, settingsHandler, sessionService, middlewareCustom.DefaultLoginRateLimit(), logger)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
