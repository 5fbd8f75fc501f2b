package app

import (
	"github.com/ghuser/playcatalog/pkg/cache"
	"github.com/ghuser/playcatalog/pkg/config"
	"github.com/ghuser/playcatalog/pkg/database"
	"github.com/ghuser/playcatalog/pkg/events"
	"github.com/ghuser/playcatalog/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service route registration calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "item created", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to publish", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Db       *database.Database
	Logger   logger.Logger
	EventBus events.Bus
	Redis    *cache.RedisClient // nil disables the read-through cache
	Config   *config.Config
}
