// Package events provides the pub/sub transports used to announce catalog changes.
//
// Transports implementing Bus:
//   - EventBus: PostgreSQL-backed, built on Watermill's SQL transport (default).
//   - EventBus over Watermill's gochannel: in-process only, for local runs and tests.
//   - KafkaBus: segmentio/kafka-go writer and consumer-group readers.
//
// Delivery semantics:
//   - ConsumerGroup (<service>-consumer): messages are load-balanced across all
//     instances in the group; only one instance processes each message.
//   - Handlers should be idempotent. Delivery is at-least-once; a failing handler
//     is retried up to 3 times with exponential backoff before the error is
//     reported on the subscription's error channel.
//
// OTel context propagation: trace context is injected into message metadata on Publish
// and extracted in Subscribe, enabling end-to-end distributed tracing across services.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" database/sql driver
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/playcatalog/pkg/config"
	"github.com/ghuser/playcatalog/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	errChanSize     = 100
)

// Handler processes a single message. Returning an error triggers a retry.
type Handler func(ctx context.Context, msg *message.Message) error

// Bus is the transport-agnostic event bus used by the API and the worker.
type Bus interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
	Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error)
	Ping(ctx context.Context) error
	Close() error
}

// New returns the Bus selected by cfg.EventTransport.
func New(cfg *config.Config, log logger.Logger) (Bus, error) {
	switch cfg.EventTransport {
	case config.TransportKafka:
		bus, err := NewKafkaBus(cfg, log)
		if err != nil {
			return nil, err
		}
		return bus, nil
	case config.TransportMemory:
		return NewInProcessBus(log), nil
	case config.TransportSQL, "":
		bus, err := NewEventBus(cfg, log)
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("events: unknown transport %q", cfg.EventTransport)
	}
}

// EventBus is a PostgreSQL-backed pub/sub EventBus built on Watermill's SQL transport.
// It uses FOR UPDATE SKIP LOCKED under the hood for concurrent-safe delivery.
type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	db         *sql.DB // nil for the in-process transport
	log        logger.Logger
	wg         sync.WaitGroup
}

// NewEventBus opens a database connection from cfg.DatabaseURL and
// initializes a Watermill SQL publisher and subscriber. Schema tables are
// created automatically on first use.
//
// All instances with the same cfg.ServiceName share a ConsumerGroup, so each
// message is processed by exactly one instance (load-balanced, not broadcast).
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(
		db,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		wlog,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := watermillsql.NewSubscriber(
		db,
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    cfg.ServiceName + "-consumer",
		},
		wlog,
	)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{
		publisher:  pub,
		subscriber: sub,
		db:         db,
		log:        log,
	}, nil
}

// NewInProcessBus returns an EventBus over Watermill's gochannel pub/sub.
// Messages never leave the process and are lost on restart.
func NewInProcessBus(log logger.Logger) *EventBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: errChanSize}, &slogAdapter{log: log})
	return &EventBus{publisher: pubSub, subscriber: pubSub, log: log}
}

// Publish sends one or more messages to the given topic.
// OTel trace context from ctx is injected into each message's metadata so
// the receiving subscriber can restore the trace and continue the span tree.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTraceContext(ctx, msgs)
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers handler to process messages from topic asynchronously.
// The handler receives a context with the publisher's OTel trace restored from
// message metadata, enabling distributed tracing across service boundaries.
//
// Ack/Nack is managed by the bus:
//   - handler returns nil   → Ack (message consumed)
//   - handler returns error → retried up to 3× with exponential backoff (1s, 2s, 4s)
//   - all retries exhausted → Nack + error forwarded to the returned channel
//
// The returned error channel is buffered (capacity 100). Callers must drain it:
//
//	errCh, err := bus.Subscribe(ctx, topic, handler)
//	go func() { for err := range errCh { log.ErrorContext(ctx, "subscriber error", "error", err) } }()
//
// All in-flight handlers complete before Close() returns.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errChanSize)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTraceContext(ctx, msg)
			if err := retryWithBackoff(msgCtx, msg, handler, maxRetries, retryBaseDelay, q.log); err != nil {
				msg.Nack()
				reportError(msgCtx, errCh, err, topic, q.log)
			} else {
				msg.Ack()
			}
		}
	}()

	return errCh, nil
}

// Ping checks the EventBus database connection health.
func (q *EventBus) Ping(ctx context.Context) error {
	if q.db == nil {
		return nil
	}
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close gracefully shuts down the EventBus.
// Shutdown order: stop subscriber → wait for in-flight handlers (30 s max)
// → close publisher → close database connection.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}

	waitWithTimeout(&q.wg, shutdownTimeout, q.log)

	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	if q.db == nil {
		return nil
	}
	return q.db.Close()
}

// injectTraceContext copies the OTel propagation fields of ctx into every message.
func injectTraceContext(ctx context.Context, msgs []*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

// extractTraceContext restores the publisher's trace context from message metadata.
func extractTraceContext(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

func reportError(ctx context.Context, errCh chan<- error, err error, topic string, log logger.Logger) {
	select {
	case errCh <- err:
	default:
		log.ErrorContext(ctx, "events: error channel full, dropping error",
			"error", err, "topic", topic)
	}
}

func waitWithTimeout(wg *sync.WaitGroup, timeout time.Duration, log logger.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	select {
	case <-done:
	case <-ctx.Done():
		log.Error("events: timed out waiting for in-flight handlers to complete")
	}
}

// retryWithBackoff calls handler up to maxRetries times with exponential backoff.
// Returns nil on first success; returns the last error after all retries exhaust.
func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	maxRetries int,
	baseDelay time.Duration,
	log logger.Logger,
) error {
	delay := baseDelay
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt < maxRetries {
			log.WarnContext(ctx, "events: handler failed, retrying",
				"attempt", attempt,
				"max_retries", maxRetries,
				"next_delay", delay,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return fmt.Errorf("events: handler failed after %d retries: %w", maxRetries, err)
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
