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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/ulule/limiter/v3"

	rediscache "github.com/hdtransit/erp_backend/internal/adapters/cache/redis"
	"github.com/hdtransit/erp_backend/internal/adapters/events/kafka"
	"github.com/hdtransit/erp_backend/internal/adapters/metrics"
	"github.com/hdtransit/erp_backend/internal/adapters/ratesource"
	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	"github.com/hdtransit/erp_backend/internal/core/services"
	"github.com/hdtransit/erp_backend/internal/handlers"
	"github.com/hdtransit/erp_backend/internal/middleware"
	"github.com/hdtransit/erp_backend/internal/platform/config"
	"github.com/hdtransit/erp_backend/internal/repositories/database/pgsql"
	"github.com/hdtransit/erp_backend/internal/utils"
	"github.com/hdtransit/erp_backend/pkg/cache"
	"github.com/hdtransit/erp_backend/pkg/database"
)

const shutdownTimeout = 15 * time.Second

// @title Transit ERP Backend API
// @version 1.0
// @description Multi-company ERP backend with currency normalization.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	repos := pgsql.NewRepositoryProvider(dbPool)

	var registry *metrics.Registry
	if cfg.MetricsEnabled {
		registry = metrics.NewRegistry()
	}

	var publisher gateways.EventPublisher = kafka.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Info("Publishing domain events", slog.String("topic", cfg.KafkaTopic))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}()

	normalizerOpts := []services.NormalizerOption{
		services.WithBaseCurrency(cfg.BaseCurrency),
		services.WithRatesCacheTTL(cfg.RatesCacheTTL),
		services.WithExchangeRateRepository(repos.ExchangeRateRepo),
		services.WithRateEventPublisher(publisher),
	}
	if registry != nil {
		normalizerOpts = append(normalizerOpts, services.WithNormalizerMetrics(registry))
	}

	deps := services.ServiceDeps{Publisher: publisher}
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cache.CloseRedisClient(redisClient)

		snapshots := rediscache.NewSnapshotCache(redisClient, cfg.RatesCacheTTL, logger)
		normalizerOpts = append(normalizerOpts, services.WithSnapshotCache(snapshots))
		deps.Cache = snapshots
	}

	source, fallback, err := buildRateSources(cfg)
	if err != nil {
		logger.Error("Failed to build rate source", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if fallback != nil {
		normalizerOpts = append(normalizerOpts, services.WithFallbackRateSource(fallback))
	}
	normalizer := services.NewCurrencyNormalizer(source, normalizerOpts...)
	defer normalizer.Close()
	deps.Normalizer = normalizer
	logger.Info("Currency normalizer ready",
		slog.String("base_currency", normalizer.BaseCurrency()),
		slog.String("source", source.Name()))

	if err := handlers.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	container := services.NewServiceContainer(cfg, repos, deps)

	if cfg.EnableDBCheck {
		if status := container.Health.Check(ctx); !status.Healthy {
			logger.Error("Startup health check failed",
				slog.String("database", status.Database),
				slog.String("cache", status.Cache))
			os.Exit(1)
		}
	}

	if cfg.SeedDefaultData {
		if err := container.Seeder.SeedDefaults(ctx); err != nil {
			logger.Error("Failed to seed default data", slog.String("error", err.Error()))
		}
	}

	posthogClient := utils.InitializePosthogClient(cfg.PostHogAPIKey, logger)
	defer posthogClient.Close()

	loginLimiter := newLoginLimiter(cfg, logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if registry != nil {
		r.Use(registry.Middleware())
		r.GET("/metrics", gin.WrapH(registry.Handler()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, posthogClient, loginLimiter)

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
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", slog.String("error", err.Error()))
	}
}

// runMigrations applies every pending "up" migration through a short-lived database/sql
// connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

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
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return errors.Join(sourceErr, dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// buildRateSources returns the configured primary source and, for the HTTP feed, the
// static table as its fallback.
func buildRateSources(cfg *config.Config) (gateways.RateSource, gateways.RateSource, error) {
	static := ratesource.DefaultStaticSource()
	if cfg.RatesTableFile != "" {
		loaded, err := ratesource.LoadStaticSource(cfg.RatesTableFile)
		if err != nil {
			return nil, nil, err
		}
		static = loaded
	}

	if cfg.RatesSource != config.RatesSourceHTTP {
		return static, nil, nil
	}
	feed, err := ratesource.NewHTTPFeedSource(cfg.RatesFeedURL,
		ratesource.WithTimeout(cfg.RatesFeedTimeout),
		ratesource.WithRetries(cfg.RatesFeedRetries),
	)
	if err != nil {
		return nil, nil, err
	}
	return feed, static, nil
}

func newLoginLimiter(cfg *config.Config, logger *slog.Logger) *limiter.Limiter {
	if cfg.LoginRateLimit == "" {
		return nil
	}
	l, err := middleware.NewLoginLimiter(cfg.LoginRateLimit)
	if err != nil {
		logger.Warn("Invalid LOGIN_RATE_LIMIT, login is not rate limited", slog.String("error", err.Error()))
		return nil
	}
	return l
}
