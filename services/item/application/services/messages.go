package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/playcatalog/pkg/events"
	itemevents "github.com/ghuser/playcatalog/services/item/domain/events"
)

// Metadata keys set on every item lifecycle message.
const (
	MetadataEventID      = "event_id"
	MetadataEventType    = "event_type"
	MetadataEventVersion = "event_version"
	MetadataItemID       = "item_id"
)

// newEventMessage wraps payload in a watermill message. The item ID doubles as
// the partition key so all events for one item stay ordered on Kafka.
func newEventMessage(eventType string, itemID uuid.UUID, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", eventType, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetadataEventID, msg.UUID)
	msg.Metadata.Set(MetadataEventType, eventType)
	msg.Metadata.Set(MetadataEventVersion, strconv.Itoa(itemevents.SchemaVersion))
	msg.Metadata.Set(MetadataItemID, itemID.String())
	msg.Metadata.Set(events.MetadataPartitionKey, itemID.String())
	return msg, nil
}
