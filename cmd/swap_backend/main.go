package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/money_swap_app/internal/adapters/database/pgsql"
	"github.com/SscSPs/money_swap_app/internal/adapters/events"
	"github.com/SscSPs/money_swap_app/internal/adapters/rates"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/SscSPs/money_swap_app/internal/core/services"
	"github.com/SscSPs/money_swap_app/internal/handlers"
	"github.com/SscSPs/money_swap_app/internal/middleware"
	"github.com/SscSPs/money_swap_app/internal/platform/config"
	"github.com/SscSPs/money_swap_app/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Money Swap Backend API
// @version 1.0
// @description Multi-currency wallet ledger: users, deposits, swaps and transfer history.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Both Redis consumers degrade gracefully, so a dead Redis is not fatal.
			logger.Warn("Redis ping failed", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		}
	}

	publisher := newEventPublisher(cfg, redisClient, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}()

	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), services.Providers{
		FiatRates:   newRateProvider(rates.NewDolarAPI(cfg.DolarAPIBaseURL, cfg.RateProviderTimeout), redisClient, cfg.RateCacheTTL),
		CryptoRates: newRateProvider(rates.NewCoinGecko(cfg.CoinGeckoBaseURL, cfg.RateProviderTimeout), redisClient, cfg.RateCacheTTL),
		Events:      publisher,
	})

	rateLimiter, err := newRateLimiter(cfg, redisClient)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, middleware.RateLimit(rateLimiter))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Server exited")
}

// runMigrations applies all pending "up" migrations through a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		_ = migrationDB.Close()
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}

	// Check for dirty migrations after running Up.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// newRateProvider wraps provider in the Redis quote cache when one is configured.
func newRateProvider(provider portssvc.RateQuoteProvider, redisClient *redis.Client, ttl time.Duration) portssvc.RateQuoteProvider {
	if redisClient == nil {
		return provider
	}
	return rates.NewCachingProvider(provider, redisClient, ttl)
}

// newEventPublisher picks the configured backend. Each publish is bounded by
// cfg.EventsPublishTimeout because it runs before the reply is sent.
func newEventPublisher(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) portssvc.TransferEventPublisher {
	switch cfg.EventsBackend {
	case config.EventsRedis:
		if redisClient != nil {
			logger.Info("Publishing transfer events to Redis", slog.String("channel", cfg.EventsRedisChannel))
			return events.NewTimeoutPublisher(events.NewRedisPublisher(redisClient, cfg.EventsRedisChannel), cfg.EventsPublishTimeout)
		}
	case config.EventsKafka:
		logger.Info("Publishing transfer events to Kafka", slog.String("topic", cfg.KafkaTopic))
		writer := events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		return events.NewTimeoutPublisher(events.NewKafkaPublisher(writer), cfg.EventsPublishTimeout)
	}
	return events.NopPublisher{}
}

// newRateLimiter keeps per-IP counters in Redis when available so that all
// instances share one quota, and in process memory otherwise.
func newRateLimiter(cfg *config.Config, redisClient *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	if redisClient == nil {
		return limiter.New(memory.NewStore(), rate), nil
	}
	store, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "swap_backend_limiter"})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}
