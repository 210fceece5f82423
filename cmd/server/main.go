package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/paywal/internal/adapter/http"
	"github.com/iho/paywal/internal/adapter/http/handler"
	"github.com/iho/paywal/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/paywal/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/paywal/internal/adapter/repository/redis"
	"github.com/iho/paywal/internal/infrastructure/auth"
	"github.com/iho/paywal/internal/infrastructure/breaker"
	"github.com/iho/paywal/internal/infrastructure/config"
	"github.com/iho/paywal/internal/infrastructure/eventpublisher"
	"github.com/iho/paywal/internal/infrastructure/logger"
	"github.com/iho/paywal/internal/infrastructure/metrics"
	"github.com/iho/paywal/internal/infrastructure/postgres"
	"github.com/iho/paywal/internal/infrastructure/redis"
	"github.com/iho/paywal/internal/usecase"
)

const limiterIdleTimeout = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	if cfg.DatabaseAutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.DatabaseMigrationsPath, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.Connect(ctx, redis.PoolConfig{
		URL:          cfg.RedisURL,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisReadTimeout,
		WriteTimeout: cfg.RedisReadTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.PublisherEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}

	engine := usecase.NewTransferEngine(usecase.TransferEngineDeps{
		TxManager: txManager,
		Accounts:  accountRepo,
		Ledger:    ledgerRepo,
		Outbox:    outboxRepo,
		Detector:  cfg.AnomalyRules(),
		IDGen:     idGen,
		Retrier: postgresRepo.NewRetrierWithConfig(postgresRepo.RetrierConfig{
			MaxRetries:      cfg.EngineMaxRetries,
			InitialInterval: cfg.EngineRetryBackoff,
		}, log),
		Guard: breaker.New(breaker.Config{
			Name:        "postgres",
			MaxFailures: cfg.BreakerMaxFailures,
			OpenTimeout: cfg.BreakerOpenTimeout,
			Observer:    appMetrics,
			Logger:      log,
		}),
		Metrics: appMetrics,
		Logger:  log.With().Str("component", "transfer_engine").Logger(),
	}, usecase.TransferEngineConfig{
		StoreTimeout:    cfg.EngineStoreTimeout,
		ScreeningWindow: cfg.AnomalyVelocityWindow,
	})

	accountUC := usecase.NewAccountUseCase(accountRepo, ledgerRepo, idGen, log)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, ledgerRepo)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).CountHits(appMetrics.RateLimitHits)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransferHandler:  handler.NewTransferHandler(engine),
		AccountHandler:   handler.NewAccountHandler(accountUC),
		LedgerHandler:    handler.NewLedgerHandler(reconciliationUC),
		HealthHandler:    handler.NewHealthHandler(healthChecks(pool.Ping, redisClient)...),
		TokenVerifier:    auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration),
		IdempotencyStore: redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          appMetrics,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:           log,
	})

	workers, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	if cfg.PublisherEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  redisRepo.NewEventPublisher(redisClient),
			Logger:     log,
			BatchSize:  cfg.PublisherBatchSize,
			Interval:   cfg.PublisherInterval,
			Retention:  cfg.PublisherRetention,
		})
		go func() {
			_ = publisher.Start(workers)
		}()
	}

	go sweepLimiters(workers, rateLimiter, limiterIdleTimeout)

	server := newServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func healthChecks(pgPing func(context.Context) error, client *goredis.Client) []handler.HealthCheck {
	return []handler.HealthCheck{
		{Name: "postgres", Ping: pgPing},
		{Name: "redis", Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() }},
	}
}

func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter, idle time.Duration) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(idle)
		}
	}
}
