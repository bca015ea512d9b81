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

	"github.com/go-chi/chi/v5"

	"github.com/fofanamamadou/affiliation-project/internal/admin"
	"github.com/fofanamamadou/affiliation-project/internal/auth"
	"github.com/fofanamamadou/affiliation-project/internal/commission"
	"github.com/fofanamamadou/affiliation-project/internal/config"
	"github.com/fofanamamadou/affiliation-project/internal/core"
	"github.com/fofanamamadou/affiliation-project/internal/health"
	"github.com/fofanamamadou/affiliation-project/internal/influencer"
	"github.com/fofanamamadou/affiliation-project/internal/middleware"
	"github.com/fofanamamadou/affiliation-project/internal/notify"
	"github.com/fofanamamadou/affiliation-project/internal/prospect"
	"github.com/fofanamamadou/affiliation-project/internal/server"
	"github.com/fofanamamadou/affiliation-project/internal/stats"
)

const (
	drainDelay = 5 * time.Second
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

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	notifier := notify.NewNotifier(
		notify.NewSender(cfg.SMTP),
		cfg.Affiliation.BaseURL,
		logger,
	)

	prospectRepo := prospect.NewRepository(db.DB)
	commissionRepo := commission.NewRepository(db.DB)
	influencerRepo := influencer.NewRepository(db.DB)
	adminRepo := admin.NewRepository(db.DB)
	authRepo := auth.NewRepository(db.DB)

	commissionSvc := commission.NewService(
		commissionRepo,
		db.DB,
		cfg.Remise.JustificatifDir,
	)
	influencerSvc := influencer.NewService(
		influencerRepo,
		notifier,
		prospectRepo,
		commissionSvc,
	)
	prospectSvc := prospect.NewService(prospectRepo, influencerSvc, notifier)
	adminSvc := admin.NewService(adminRepo)
	authSvc := auth.NewService(
		authRepo,
		jwtManager,
		adminSvc,
		influencerSvc,
		redis.Client,
		cfg.Security,
		cfg.JWT.AccessTokenExpire,
	)

	authHandler := auth.NewHandler(authSvc)
	influencerHandler := influencer.NewHandler(influencerSvc)
	prospectHandler := prospect.NewHandler(prospectSvc)
	publicHandler := prospect.NewPublicHandler(prospectSvc)
	commissionHandler := commission.NewHandler(commissionSvc)
	statsHandler := stats.NewHandler(stats.NewService(stats.NewRepository(db.DB)))

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	publicHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		influencerHandler.RegisterRoutes(r, authenticator)
		prospectHandler.RegisterRoutes(r, authenticator)
		commissionHandler.RegisterRoutes(r, authenticator)
		statsHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

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
