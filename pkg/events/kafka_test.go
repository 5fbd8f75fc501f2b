package events

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/ghuser/playcatalog/pkg/config"
)

func TestToKafkaMessage_UsesPartitionKey(t *testing.T) {
	msg := message.NewMessage("msg-1", []byte(`{"item_id":"i-1"}`))
	msg.Metadata.Set(MetadataPartitionKey, "i-1")
	msg.Metadata.Set("event_type", "ItemDeleted")

	km := toKafkaMessage("item.deleted", msg)

	if km.Topic != "item.deleted" {
		t.Errorf("topic: got %q", km.Topic)
	}
	if string(km.Key) != "i-1" {
		t.Errorf("key: got %q, want %q", km.Key, "i-1")
	}
	if string(km.Value) != `{"item_id":"i-1"}` {
		t.Errorf("value: got %s", km.Value)
	}
}

func TestToKafkaMessage_FallsBackToMessageUUID(t *testing.T) {
	msg := message.NewMessage("msg-2", nil)

	km := toKafkaMessage("item.created", msg)

	if string(km.Key) != "msg-2" {
		t.Errorf("key: got %q, want %q", km.Key, "msg-2")
	}
}

func TestKafkaMessage_RoundTrip(t *testing.T) {
	msg := message.NewMessage("msg-3", []byte("payload"))
	msg.Metadata.Set("event_id", "evt-1")
	msg.Metadata.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	got := fromKafkaMessage(toKafkaMessage("item.created", msg))

	if got.UUID != "msg-3" {
		t.Errorf("UUID: got %q, want %q", got.UUID, "msg-3")
	}
	if string(got.Payload) != "payload" {
		t.Errorf("payload: got %q", got.Payload)
	}
	for _, k := range []string{"event_id", "traceparent"} {
		if got.Metadata.Get(k) != msg.Metadata.Get(k) {
			t.Errorf("metadata %s: got %q, want %q", k, got.Metadata.Get(k), msg.Metadata.Get(k))
		}
	}
	if got.Metadata.Get(headerMessageUUID) != "" {
		t.Error("internal UUID header must not leak into metadata")
	}
}

func TestFromKafkaMessage_GeneratesUUIDWhenMissing(t *testing.T) {
	got := fromKafkaMessage(kafka.Message{Value: []byte("x")})
	if got.UUID == "" {
		t.Fatal("expected generated UUID")
	}
}

func TestNewKafkaBus_NoBrokers(t *testing.T) {
	_, err := NewKafkaBus(&config.Config{KafkaBrokers: " "}, nopLogger())
	if err == nil {
		t.Fatal("expected error when no brokers are configured")
	}
}

func TestKafkaBus_PingUnreachable(t *testing.T) {
	bus, err := NewKafkaBus(&config.Config{KafkaBrokers: "localhost:1", ServiceName: "test"}, nopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer bus.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bus.Ping(ctx); err == nil {
		t.Fatal("expected ping error for unreachable broker")
	}
}

// Integration test: skipped unless KAFKA_BROKERS is set.
func TestKafkaBusIntegration(t *testing.T) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_BROKERS not set; skipping integration tests")
	}

	bus, err := NewKafkaBus(&config.Config{KafkaBrokers: brokers, ServiceName: "events-test-" + uuid.NewString()}, nopLogger())
	if err != nil {
		t.Fatalf("new bus: %v", err)
	}
	defer bus.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "events-test-" + uuid.NewString()
	want := uuid.NewString()
	if err := bus.Publish(ctx, topic, message.NewMessage(want, []byte("hello"))); err != nil {
		t.Fatalf("publish: %v", err)
	}

	received := make(chan *message.Message, 1)
	if _, err := bus.Subscribe(ctx, topic, func(_ context.Context, msg *message.Message) error {
		received <- msg
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	select {
	case got := <-received:
		if got.UUID != want {
			t.Errorf("UUID: got %q, want %q", got.UUID, want)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestHandleUntilDone_RetriesSameMessageUntilSuccess(t *testing.T) {
	msg := message.NewMessage(uuid.NewString(), []byte(`{}`))
	calls := 0
	handler := func(_ context.Context, got *message.Message) error {
		if got.UUID != msg.UUID {
			t.Errorf("handler received a different message: %s", got.UUID)
		}
		calls++
		if calls <= maxRetries {
			return errors.New("redis: connection refused")
		}
		return nil
	}
	var reported []error

	ok := handleUntilDone(context.Background(), msg, handler, 10*time.Millisecond,
		func(err error) { reported = append(reported, err) }, nopLogger())

	if !ok {
		t.Fatal("expected the message to be handled eventually")
	}
	if calls != maxRetries+1 {
		t.Errorf("expected %d handler calls, got %d", maxRetries+1, calls)
	}
	if len(reported) != 1 {
		t.Errorf("expected one reported failure round, got %d", len(reported))
	}
}

func TestHandleUntilDone_StopsOnShutdownWithoutSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler := func(context.Context, *message.Message) error { return errors.New("still failing") }

	ok := handleUntilDone(ctx, message.NewMessage(uuid.NewString(), nil), handler, time.Hour,
		func(error) { cancel() }, nopLogger())

	if ok {
		t.Fatal("expected false so the offset stays uncommitted")
	}
}
