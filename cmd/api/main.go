// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/sitehub/internal/admin"
	"github.com/angelamos/sitehub/internal/auth"
	"github.com/angelamos/sitehub/internal/config"
	"github.com/angelamos/sitehub/internal/content"
	"github.com/angelamos/sitehub/internal/core"
	"github.com/angelamos/sitehub/internal/health"
	"github.com/angelamos/sitehub/internal/media"
	"github.com/angelamos/sitehub/internal/middleware"
	"github.com/angelamos/sitehub/internal/server"
	"github.com/angelamos/sitehub/internal/submission"
	"github.com/angelamos/sitehub/internal/workforce"
	"github.com/angelamos/sitehub/migrations"
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

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize telemetry", "error", err)
	} else if telemetry.Enabled() {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
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
		if err := db.MigrateUp(migrations.FS); err != nil {
			return err
		}
		version, dirty, verr := db.MigrateVersion(migrations.FS)
		if verr != nil {
			logger.Warn("read schema version", "error", verr)
		}
		logger.Info("schema migrated", "version", version, "dirty", dirty)
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	verifier, err := auth.NewVerifier(ctx, cfg.Auth)
	if err != nil {
		return err
	}
	logger.Info("token verifier initialized",
		"issuer", cfg.Auth.Issuer,
		"audience", cfg.Auth.Audience,
		"jwks", cfg.Auth.JWKSURL != "",
	)

	storage, err := media.NewLocalStorage(cfg.Media.Dir, cfg.Media.BaseURL)
	if err != nil {
		return err
	}

	workforceSvc := workforce.NewService(
		workforce.NewRepository(db.DB),
		cfg.Auth.FounderEmail,
	)
	workforceHandler := workforce.NewHandler(workforceSvc)

	guard := middleware.NewGuard(verifier, workforceSvc)

	contentHandler := content.NewHandler(
		content.NewService(content.NewRepository(db.DB)),
	)

	submissionHandler := submission.NewHandler(submission.NewService(
		submission.NewRepository(db.DB),
		submission.NewLogNotifier(logger),
		cfg.Forms.IPHashKey,
	))

	mediaHandler := media.NewHandler(
		media.NewService(
			media.NewRepository(db.DB),
			storage,
			cfg.Media.MaxUploadBytes,
		),
		cfg.Media.MaxUploadBytes,
	)

	healthHandler := health.NewHandler(cfg.App.Version,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
		health.Dependency{Name: "media", Checker: storage},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Inventory:  admin.NewInventoryRepository(db.DB),
		SchemaVersion: func() (uint, bool, error) {
			return db.MigrateVersion(migrations.FS)
		},
		Version: cfg.App.Version,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Name: "api",
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			LocalFallback: true,
			BypassFunc: func(r *http.Request) bool {
				return r.Method == http.MethodOptions
			},
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Handle(
		cfg.Media.BaseURL+"/*",
		http.StripPrefix(cfg.Media.BaseURL, storage.Handler()),
	)

	formsLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Name: "forms",
			Limit: middleware.PerWindow(
				cfg.FormsRateLimit.Requests,
				cfg.FormsRateLimit.Burst,
				cfg.FormsRateLimit.Window,
			),
			KeyFunc: middleware.KeyByScopedIP("forms"),
		},
	).Handler

	router.Route("/v1", func(r chi.Router) {
		contentHandler.RegisterPublicRoutes(r)
		submissionHandler.RegisterPublicRoutes(r, formsLimiter)

		r.Route("/hub", func(r chi.Router) {
			workforceHandler.RegisterRoutes(r, guard.Require)
			contentHandler.RegisterHubRoutes(r, guard.Require)
			submissionHandler.RegisterHubRoutes(r, guard.Require)
			mediaHandler.RegisterRoutes(r, guard.Require)
			adminHandler.RegisterRoutes(r, guard.Require)
		})
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

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
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
