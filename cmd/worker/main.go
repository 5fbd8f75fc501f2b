package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/playcatalog/pkg/cache"
	"github.com/ghuser/playcatalog/pkg/config"
	"github.com/ghuser/playcatalog/pkg/events"
	"github.com/ghuser/playcatalog/pkg/logger"
	"github.com/ghuser/playcatalog/pkg/telemetry"
	"github.com/ghuser/playcatalog/services/item/application/subscribers"
)

// The worker consumes item lifecycle events and evicts the matching cache entries.
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

	log := logger.New(cfg).With("process", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("worker exited", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // deferred stop already ran
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if !cfg.CacheEnabled {
		log.Info("item cache disabled; nothing to invalidate")
		return nil
	}

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	eventBus, err := events.New(cfg, log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	// Close waits for in-flight handlers before returning.
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	handler := subscribers.CacheInvalidation(cache.NewItemCache(redisClient), log)
	if err := subscribers.Register(ctx, eventBus, handler, log); err != nil {
		return fmt.Errorf("register subscribers: %w", err)
	}
	log.Info("worker consuming", "topics", subscribers.Topics, "transport", cfg.EventTransport)

	<-ctx.Done()
	log.Info("shutting down worker...")
	return nil
}
