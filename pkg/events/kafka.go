package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/segmentio/kafka-go"

	"github.com/ghuser/playcatalog/pkg/config"
	"github.com/ghuser/playcatalog/pkg/logger"
)

const (
	// MetadataPartitionKey selects the Kafka message key. Messages sharing a key
	// land on the same partition, so events for one item stay ordered.
	MetadataPartitionKey = "partition_key"

	headerMessageUUID = "_watermill_message_uuid"

	// redeliveryDelay separates retry rounds for a message that keeps failing.
	redeliveryDelay = 5 * time.Second
)

// KafkaBus is a Bus backed by Kafka. Watermill messages are used as the
// in-process envelope so publishers and handlers are transport-agnostic.
type KafkaBus struct {
	writer  *kafka.Writer
	brokers []string
	groupID string
	log     logger.Logger

	mu      sync.Mutex
	readers []*kafka.Reader
	wg      sync.WaitGroup
}

// NewKafkaBus creates a synchronous, fully-acknowledged Kafka writer for
// cfg.KafkaBrokers. Readers are created per topic on Subscribe.
func NewKafkaBus(cfg *config.Config, log logger.Logger) (*KafkaBus, error) {
	brokers := cfg.KafkaBrokerList()
	if len(brokers) == 0 {
		return nil, errors.New("events: no kafka brokers configured")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error(fmt.Sprintf(msg, args...), "component", "kafka-writer")
		}),
	}

	return &KafkaBus{
		writer:  w,
		brokers: brokers,
		groupID: cfg.ServiceName + "-consumer",
		log:     log,
	}, nil
}

// Publish writes msgs to topic and returns once every broker replica acknowledged them.
func (b *KafkaBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTraceContext(ctx, msgs)

	kms := make([]kafka.Message, 0, len(msgs))
	for _, msg := range msgs {
		kms = append(kms, toKafkaMessage(topic, msg))
	}
	if err := b.writer.WriteMessages(ctx, kms...); err != nil {
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe starts a consumer-group reader on topic. A message's offset is
// committed only after the handler succeeds. A failing message is retried in
// place, with each failed round reported on the returned channel, and the
// partition does not advance past it. On shutdown an unhandled message stays
// uncommitted, so the group resumes from it after a restart.
func (b *KafkaBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})

	b.mu.Lock()
	b.readers = append(b.readers, r)
	b.mu.Unlock()

	errCh := make(chan error, errChanSize)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for {
			km, err := r.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, io.EOF) {
					return
				}
				reportError(ctx, errCh, fmt.Errorf("events: fetch from %s: %w", topic, err), topic, b.log)
				select {
				case <-ctx.Done():
					return
				case <-time.After(retryBaseDelay):
				}
				continue
			}

			msg := fromKafkaMessage(km)
			msgCtx := extractTraceContext(ctx, msg)
			report := func(err error) { reportError(msgCtx, errCh, err, topic, b.log) }
			if !handleUntilDone(msgCtx, msg, handler, redeliveryDelay, report, b.log) {
				return
			}
			if err := r.CommitMessages(ctx, km); err != nil {
				reportError(msgCtx, errCh, fmt.Errorf("events: commit %s offset %d: %w", topic, km.Offset, err), topic, b.log)
			}
		}
	}()

	return errCh, nil
}

// handleUntilDone runs handler on msg, repeating failed retry rounds every
// pause until it succeeds. Returns false if ctx ends first; the caller must
// then leave the offset uncommitted.
func handleUntilDone(ctx context.Context, msg *message.Message, handler Handler, pause time.Duration, report func(error), log logger.Logger) bool {
	for {
		err := retryWithBackoff(ctx, msg, handler, maxRetries, retryBaseDelay, log)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		report(err)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(pause):
		}
	}
}

// Ping dials the first reachable broker.
func (b *KafkaBus) Ping(ctx context.Context) error {
	var lastErr error
	for _, addr := range b.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}
	return fmt.Errorf("events: ping kafka: %w", lastErr)
}

// Close stops all readers, waits for in-flight handlers, then flushes the writer.
func (b *KafkaBus) Close() error {
	b.mu.Lock()
	readers := b.readers
	b.readers = nil
	b.mu.Unlock()

	var errs []error
	for _, r := range readers {
		if err := r.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: close reader: %w", err))
		}
	}

	waitWithTimeout(&b.wg, shutdownTimeout, b.log)

	if err := b.writer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close writer: %w", err))
	}
	return errors.Join(errs...)
}

func toKafkaMessage(topic string, msg *message.Message) kafka.Message {
	key := msg.Metadata.Get(MetadataPartitionKey)
	if key == "" {
		key = msg.UUID
	}

	headers := make([]kafka.Header, 0, len(msg.Metadata)+1)
	headers = append(headers, kafka.Header{Key: headerMessageUUID, Value: []byte(msg.UUID)})
	for k, v := range msg.Metadata {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   msg.Payload,
		Headers: headers,
		Time:    time.Now().UTC(),
	}
}

func fromKafkaMessage(km kafka.Message) *message.Message {
	uuid := ""
	metadata := make(message.Metadata, len(km.Headers))
	for _, h := range km.Headers {
		if h.Key == headerMessageUUID {
			uuid = string(h.Value)
			continue
		}
		metadata.Set(h.Key, string(h.Value))
	}
	if uuid == "" {
		uuid = watermill.NewUUID()
	}

	msg := message.NewMessage(uuid, km.Value)
	msg.Metadata = metadata
	return msg
}
