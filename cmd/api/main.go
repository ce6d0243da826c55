// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carterperez-dev/templates/marketplace-api/internal/auth"
	"github.com/carterperez-dev/templates/marketplace-api/internal/config"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
	"github.com/carterperez-dev/templates/marketplace-api/internal/event"
	"github.com/carterperez-dev/templates/marketplace-api/internal/health"
	"github.com/carterperez-dev/templates/marketplace-api/internal/meta"
	"github.com/carterperez-dev/templates/marketplace-api/internal/middleware"
	"github.com/carterperez-dev/templates/marketplace-api/internal/migrations"
	"github.com/carterperez-dev/templates/marketplace-api/internal/offer"
	"github.com/carterperez-dev/templates/marketplace-api/internal/order"
	"github.com/carterperez-dev/templates/marketplace-api/internal/review"
	"github.com/carterperez-dev/templates/marketplace-api/internal/server"
	"github.com/carterperez-dev/templates/marketplace-api/internal/storage"
	"github.com/carterperez-dev/templates/marketplace-api/internal/user"
)

const (
	drainDelay = 5 * time.Second

	loginAttemptsPerMinute = 10
	loginBurst             = 5
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrated")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("object storage ready",
		"driver", cfg.Storage.Driver,
		"bucket", cfg.Storage.Bucket,
	)

	checks := []health.Check{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: redis},
		{Name: "storage", Checker: store},
	}

	var publisher event.Publisher = event.Noop{}
	if cfg.RabbitMQ.Enabled {
		rabbit, rabbitErr := event.NewRabbitPublisher(cfg.RabbitMQ)
		if rabbitErr != nil {
			return rabbitErr
		}
		publisher = rabbit
		checks = append(checks, health.Check{Name: "rabbitmq", Checker: rabbit})
		logger.Info("rabbitmq connected", "queue", cfg.RabbitMQ.Queue)
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, store, cfg.Upload.MaxPictureBytes)
	userHandler := user.NewHandler(userSvc, cfg.Upload.MaxPictureBytes)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo,
		userSvc,
		auth.NewRedisTokenCache(redis, cfg.Auth.TokenCacheTTL),
	)
	authHandler := auth.NewHandler(authSvc)

	offerRepo := offer.NewRepository(db.DB)
	offerSvc := offer.NewService(offerRepo, store, cfg.Upload.MaxPictureBytes)
	offerHandler := offer.NewHandler(offerSvc, cfg.Upload.MaxPictureBytes)

	orderSvc := order.NewService(order.NewRepository(db.DB), publisher)
	orderHandler := order.NewHandler(orderSvc)

	reviewSvc := review.NewService(review.NewRepository(db.DB), publisher)
	reviewHandler := review.NewHandler(reviewSvc)

	metaSvc := meta.NewService(meta.NewRepository(db.DB), redis, cfg.Meta.CacheTTL)
	metaHandler := meta.NewHandler(metaSvc)

	healthHandler := health.NewHandler(checks...)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	if cfg.Otel.Enabled {
		router.Use(middleware.Tracing(cfg.Otel.ServiceName))
	}
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen:   true,
			BypassFunc: middleware.IsHealthCheck,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(authSvc)
	loginLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(loginAttemptsPerMinute, loginBurst),
		KeyFunc:  middleware.LoginKey,
		FailOpen: true,
	}).Handler

	authHandler.RegisterRoutes(router, authenticator, loginLimiter)
	userHandler.RegisterRoutes(router, authenticator)
	offerHandler.RegisterRoutes(router, authenticator)
	orderHandler.RegisterRoutes(router, authenticator)
	reviewHandler.RegisterRoutes(router, authenticator)
	metaHandler.RegisterRoutes(router)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
