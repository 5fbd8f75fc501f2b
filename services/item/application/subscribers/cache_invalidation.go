// Package subscribers holds the worker-side handlers for item lifecycle events.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/playcatalog/pkg/events"
	"github.com/ghuser/playcatalog/pkg/logger"
	itemevents "github.com/ghuser/playcatalog/services/item/domain/events"
)

// Topics lists every item topic the worker consumes.
var Topics = []string{
	itemevents.TopicItemCreated,
	itemevents.TopicItemUpdated,
	itemevents.TopicItemDeleted,
}

// CacheEvictor removes an item from the read cache.
type CacheEvictor interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// itemRef is the field every item event payload shares.
type itemRef struct {
	ItemID uuid.UUID `json:"id"`
}

// CacheInvalidation returns a handler that evicts the cached copy of the item
// named by any item lifecycle event. Eviction is idempotent, so redelivery is safe.
// Payloads that cannot be decoded are logged and acked; retrying would not fix them.
func CacheInvalidation(c CacheEvictor, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var ref itemRef
		if err := json.Unmarshal(msg.Payload, &ref); err != nil || ref.ItemID == uuid.Nil {
			log.WarnContext(ctx, "dropping undecodable item event",
				"message_uuid", msg.UUID, "event_type", msg.Metadata.Get("event_type"), "error", err)
			return nil
		}

		if err := c.Delete(ctx, ref.ItemID); err != nil {
			return fmt.Errorf("evict item %s: %w", ref.ItemID, err)
		}

		log.DebugContext(ctx, "item cache evicted",
			"item_id", ref.ItemID, "event_type", msg.Metadata.Get("event_type"))
		return nil
	}
}

// Register subscribes handler to every item topic and drains each error channel
// into the log until the subscription ends.
func Register(ctx context.Context, bus events.Bus, handler events.Handler, log logger.Logger) error {
	for _, topic := range Topics {
		errCh, err := bus.Subscribe(ctx, topic, handler)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}

		go func(topic string) {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}

	log.Info("event subscribers registered", "topics", Topics)
	return nil
}
