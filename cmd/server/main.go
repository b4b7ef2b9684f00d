package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/omnibank/walletd/internal/adapter/http"
	"github.com/omnibank/walletd/internal/adapter/http/handler"
	postgresRepo "github.com/omnibank/walletd/internal/adapter/repository/postgres"
	redisRepo "github.com/omnibank/walletd/internal/adapter/repository/redis"
	"github.com/omnibank/walletd/internal/infrastructure/auth"
	"github.com/omnibank/walletd/internal/infrastructure/config"
	"github.com/omnibank/walletd/internal/infrastructure/logger"
	"github.com/omnibank/walletd/internal/infrastructure/metrics"
	"github.com/omnibank/walletd/internal/infrastructure/notification"
	"github.com/omnibank/walletd/internal/infrastructure/postgres"
	"github.com/omnibank/walletd/internal/infrastructure/redis"
	"github.com/omnibank/walletd/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, cfg.LockTimeout)
	retrier := postgresRepo.NewRetrier(appLogger)
	walletRepo := postgresRepo.NewWalletRepository(pool, retrier)
	txnRepo := postgresRepo.NewTransactionRepository(pool, retrier)
	userDirectory := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	codeGen := postgresRepo.NewTransactionCodeGenerator()

	// Notifications are optional; without a key receipts are skipped.
	var notifier usecase.Notifier
	if cfg.SendGridAPIKey != "" {
		notifier = notification.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName)
		appLogger.Info().Msg("receipt notifications enabled")
	} else {
		appLogger.Warn().Msg("SENDGRID_API_KEY not set, receipt notifications disabled")
	}

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(
		txManager, walletRepo, txnRepo, userDirectory,
		idGen, codeGen, notifier, appLogger, cfg.TransactionIDAttempts,
	)
	txnUC := usecase.NewTransactionUseCase(txnRepo, userDirectory)
	walletUC := usecase.NewWalletUseCase(walletRepo, txnRepo, userDirectory, cache, appLogger)

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize handlers
	transactionHandler := handler.NewTransactionHandler(ledgerUC, txnUC, m)
	walletHandler := handler.NewWalletHandler(walletUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: transactionHandler,
		WalletHandler:      walletHandler,
		LedgerHandler:      ledgerHandler,
		HealthHandler:      healthHandler,
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		Logger:             appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
