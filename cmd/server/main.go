package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/propledger/propledger/internal/adapter/http"
	"github.com/propledger/propledger/internal/adapter/http/handler"
	postgresRepo "github.com/propledger/propledger/internal/adapter/repository/postgres"
	redisRepo "github.com/propledger/propledger/internal/adapter/repository/redis"
	"github.com/propledger/propledger/internal/infrastructure/config"
	"github.com/propledger/propledger/internal/infrastructure/eventpublisher"
	"github.com/propledger/propledger/internal/infrastructure/logger"
	"github.com/propledger/propledger/internal/infrastructure/postgres"
	"github.com/propledger/propledger/internal/infrastructure/redis"
	"github.com/propledger/propledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zl := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zl

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier()
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	reconRepo := postgresRepo.NewReconciliationRepository(pool)
	vendorRepo := postgresRepo.NewVendorRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, retrier, accountRepo, entryRepo, outboxRepo, auditRepo, idGen)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, auditRepo, idGen)
	transferUC := usecase.NewTransferUseCase(txManager, transferRepo, ledgerUC, outboxRepo, auditRepo, idGen)
	reconUC := usecase.NewReconciliationUseCase(txManager, reconRepo, accountRepo, vendorRepo, ledgerUC, outboxRepo, auditRepo, idGen)
	reportUC := usecase.NewReportUseCase(accountRepo, entryRepo, cache)

	if cfg.SeedChart {
		created, err := accountUC.SeedDefaults(ctx, "system")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed chart of accounts")
		}
		if len(created) > 0 {
			log.Info().Int("accounts", len(created)).Msg("seeded chart of accounts")
		}
	}

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(nil),
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
		})
		go func() {
			if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC),
		LedgerHandler:         handler.NewLedgerHandler(ledgerUC),
		TransferHandler:       handler.NewTransferHandler(transferUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC),
		ReportHandler:         handler.NewReportHandler(reportUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		Logger:                zl,
		RateLimit:             cfg.RateLimit,
		RateBurst:             cfg.RateBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
