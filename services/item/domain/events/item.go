package events

import "github.com/google/uuid"

// Topics on which item lifecycle events are published.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// Event type names carried in the "event_type" message metadata.
const (
	TypeItemCreated = "ItemCreated"
	TypeItemUpdated = "ItemUpdated"
	TypeItemDeleted = "ItemDeleted"
)

// SchemaVersion is the payload schema version; increment on breaking changes.
const SchemaVersion = 1

// ItemCreatedEvent is published after a new Item is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemCreatedEvent struct {
	ItemID      uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// ItemUpdatedEvent is published after an existing Item's fields are persisted.
// Same shape as ItemCreatedEvent so consumers can upsert from either.
type ItemUpdatedEvent struct {
	ItemID      uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// ItemDeletedEvent is published after an Item is removed from the store.
type ItemDeletedEvent struct {
	ItemID uuid.UUID `json:"id"`
}
