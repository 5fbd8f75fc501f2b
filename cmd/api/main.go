package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/playcatalog/docs/swagger"
	"github.com/ghuser/playcatalog/pkg/app"
	"github.com/ghuser/playcatalog/pkg/cache"
	"github.com/ghuser/playcatalog/pkg/config"
	"github.com/ghuser/playcatalog/pkg/database"
	"github.com/ghuser/playcatalog/pkg/events"
	"github.com/ghuser/playcatalog/pkg/httpx"
	"github.com/ghuser/playcatalog/pkg/logger"
	"github.com/ghuser/playcatalog/pkg/telemetry"
	itemApi "github.com/ghuser/playcatalog/services/item/application/api"
)

const shutdownTimeout = 30 * time.Second

// @title			Play Catalog API
// @version		1.0
// @description	Catalog of items; every change is announced on the event bus.
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:8080
// @BasePath		/api
// @schemes		http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("api exited", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // deferred stop already ran
	}
}

// run wires every dependency, serves HTTP until ctx is cancelled, then drains.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	// Crash reporting is optional; log and continue on failure.
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.New(cfg, log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	defer eventBus.Close() //nolint:errcheck
	log.Info("event bus ready", "transport", cfg.EventTransport)

	checks := httpx.HealthChecks{Database: pool, EventBus: eventBus}
	a := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Config:   cfg,
	}
	if cfg.CacheEnabled {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close() //nolint:errcheck
		a.Redis = redisClient
		checks.Redis = redisClient
		log.Info("redis connected")
	} else {
		log.Info("item cache disabled")
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RequestsPerMinute:  cfg.RequestsPerMinute,
			MaxBodyBytes:       cfg.MaxBodyBytes,
		},
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/livez", httpx.LivenessHandler)
	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, a)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// registerRoutes mounts all service routes under /api.
func registerRoutes(r chi.Router, a *app.Application) {
	itemApi.ItemRoutes(r, a)
}
