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
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/indiankitchen/kitchen-backend/internal/activity"
	"github.com/indiankitchen/kitchen-backend/internal/admin"
	"github.com/indiankitchen/kitchen-backend/internal/auth"
	"github.com/indiankitchen/kitchen-backend/internal/backend"
	"github.com/indiankitchen/kitchen-backend/internal/bookmark"
	"github.com/indiankitchen/kitchen-backend/internal/comment"
	"github.com/indiankitchen/kitchen-backend/internal/config"
	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/health"
	"github.com/indiankitchen/kitchen-backend/internal/middleware"
	"github.com/indiankitchen/kitchen-backend/internal/rating"
	"github.com/indiankitchen/kitchen-backend/internal/recipe"
	"github.com/indiankitchen/kitchen-backend/internal/server"
	"github.com/indiankitchen/kitchen-backend/internal/session"
	"github.com/indiankitchen/kitchen-backend/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	//nolint:errcheck // .env is optional
	godotenv.Load()

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

	db, err := backend.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}

	rds, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, using in-process rate limits", "error", err)
		rds = nil
	}
	var redisClient *redis.Client
	if rds != nil {
		redisClient = rds.Client
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	}

	activitySvc := activity.NewService(db, logger)

	userSvc := user.NewService(db)
	userHandler := user.NewHandler(userSvc)

	if cfg.Admin.Email != "" {
		_, created, adminErr := userSvc.EnsureAdmin(
			ctx,
			cfg.Admin.Email,
			cfg.Admin.Password,
			cfg.Admin.Name,
		)
		if adminErr != nil {
			return adminErr
		}
		if created {
			logger.Info("admin account created", "email", cfg.Admin.Email)
		}
	}

	sessions := session.NewManager(db, activitySvc, cfg.Session.TTL, logger)
	sweeper := session.NewSweeper(sessions, cfg.Session.SweepInterval, logger)
	go sweeper.Run(ctx)

	var google auth.IdentityVerifier
	if cfg.Google.ClientID != "" {
		google = auth.NewGoogleVerifier(cfg.Google.ClientID, cfg.Google.JWKSURL)
	}
	authSvc := auth.NewService(userSvc, sessions, activitySvc, google, logger)
	authHandler := auth.NewHandler(authSvc, auth.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.SecureCookie || cfg.IsProduction(),
	})

	ratingSvc := rating.NewService(db, activitySvc)
	ratingHandler := rating.NewHandler(ratingSvc)

	bookmarkHandler := bookmark.NewHandler(bookmark.NewService(db, activitySvc))
	commentHandler := comment.NewHandler(comment.NewService(db, activitySvc))

	recipeSvc := recipe.NewService(db, ratingSvc, cfg.Recipe.ImageDir, logger)
	recipeHandler := recipe.NewHandler(recipeSvc)

	healthDeps := []health.Dependency{{Name: db.Name(), Checker: db}}
	adminCfg := admin.HandlerConfig{
		Storage:  db,
		Activity: activitySvc,
	}
	if rds != nil {
		healthDeps = append(healthDeps, health.Dependency{
			Name:     "redis",
			Checker:  rds,
			Optional: true,
		})
		adminCfg.RedisStats = rds.PoolStats
		adminCfg.RedisPing = rds.Ping
	}
	healthHandler := health.NewHandler(healthDeps...)
	healthHandler.SetReady(false)
	adminHandler := admin.NewHandler(adminCfg)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if telemetry != nil {
		router.Use(middleware.Tracing(cfg.Otel.ServiceName))
	}
	router.Use(
		middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Limit: middleware.Window(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			BypassFunc: middleware.SkipProbes,
			FailOpen:   true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	credentialLimit := middleware.CredentialLimit(redisClient)
	writeLimit := middleware.WriteLimit(redisClient)

	authenticator := middleware.Authenticator(authSvc, cfg.Session.CookieName)
	optionalAuth := middleware.OptionalAuth(authSvc, cfg.Session.CookieName)
	adminOnly := middleware.RequireAdmin

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, optionalAuth, credentialLimit)

		recipeHandler.RegisterRoutes(r, authenticator, adminOnly, writeLimit)
		ratingHandler.RegisterRoutes(r, optionalAuth, authenticator)
		bookmarkHandler.RegisterRoutes(r, optionalAuth, authenticator)
		commentHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		commentHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	healthHandler.SetReady(true)

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

	if err := rds.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(shutdownCtx); err != nil {
		logger.Error("storage close error", "error", err)
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
