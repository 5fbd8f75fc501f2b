package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/playcatalog/pkg/cache"
	"github.com/ghuser/playcatalog/pkg/logger"
	itemdomain "github.com/ghuser/playcatalog/services/item/domain"
	itemevents "github.com/ghuser/playcatalog/services/item/domain/events"
	"github.com/ghuser/playcatalog/services/item/domain/models"
	"github.com/ghuser/playcatalog/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/playcatalog/services/item/domain/services"
)

const instrumentationName = "github.com/ghuser/playcatalog/services/item"

// EventPublisher is the publish half of events.Bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// ItemReadCache is the read-through cache in front of the repository.
// Get returns redis.Nil on a miss.
type ItemReadCache interface {
	Get(ctx context.Context, id uuid.UUID) (*pkgcache.CachedItem, error)
	Set(ctx context.Context, item *pkgcache.CachedItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateItemInput carries the caller-supplied fields of a new Item.
type CreateItemInput struct {
	Name        string
	Description string
	Price       float64
}

// UpdateItemInput carries the replacement fields of an existing Item.
// A nil Description keeps the stored one.
type UpdateItemInput struct {
	Name        string
	Description *string
	Price       float64
}

// ItemService is the catalog manager: it validates, persists, and only after a
// successful persist publishes the matching lifecycle event.
// A failed persist or publish is surfaced to the caller and never retried here.
type ItemService struct {
	repo                repositories.ItemRepository
	publisher           EventPublisher
	cache               ItemReadCache
	log                 logger.Logger
	emitUpdateAsCreated bool

	tracer          trace.Tracer
	mutations       metric.Int64Counter
	publishFailures metric.Int64Counter
}

// Option configures optional ItemService collaborators.
type Option func(*ItemService)

// WithCache enables the read-through cache for GetByID.
func WithCache(c ItemReadCache) Option {
	return func(s *ItemService) { s.cache = c }
}

// WithUpdateAsCreated publishes updates as ItemCreatedEvent on the created topic.
func WithUpdateAsCreated(enabled bool) Option {
	return func(s *ItemService) { s.emitUpdateAsCreated = enabled }
}

// NewItemService returns an ItemService wired with the given repository and publisher.
func NewItemService(repo repositories.ItemRepository, publisher EventPublisher, log logger.Logger, opts ...Option) *ItemService {
	meter := otel.Meter(instrumentationName)
	mutations, _ := meter.Int64Counter("catalog.items.mutations",
		metric.WithDescription("Successfully persisted item mutations by operation"))
	publishFailures, _ := meter.Int64Counter("catalog.events.publish_failures",
		metric.WithDescription("Events that failed to publish after the change was persisted"))

	s := &ItemService{
		repo:            repo,
		publisher:       publisher,
		log:             log,
		tracer:          otel.Tracer(instrumentationName),
		mutations:       mutations,
		publishFailures: publishFailures,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every item in the catalog.
func (s *ItemService) List(ctx context.Context) (items []*models.Item, err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.List")
	defer func() { endSpan(span, err) }()

	items, err = s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	span.SetAttributes(attribute.Int("item.count", len(items)))
	return items, nil
}

// GetByID retrieves an Item using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Warm the cache with the Postgres result, then re-read the store and
//     evict the entry if a concurrent update or delete landed in between.
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (item *models.Item, err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.GetByID", trace.WithAttributes(attribute.String("item.id", id.String())))
	defer func() { endSpan(span, err) }()

	if s.cache != nil {
		cached, cerr := s.cache.Get(ctx, id)
		switch {
		case cerr == nil:
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return fromCached(cached), nil
		case !errors.Is(cerr, redis.Nil):
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", cerr)
		}
	}

	item, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.cache != nil {
		s.fill(ctx, item)
	}
	return item, nil
}

// fill writes item to the cache and keeps it only while the store still
// holds the same values. Mutations evict after they persist, so any change
// that lands before the re-read is caught here and any later one evicts us.
func (s *ItemService) fill(ctx context.Context, item *models.Item) {
	if err := s.cache.Set(ctx, toCached(item)); err != nil {
		s.log.WarnContext(ctx, "item cache write failed", "item_id", item.ID, "error", err)
		return
	}
	current, err := s.repo.GetByID(ctx, item.ID)
	if err == nil && sameItem(current, item) {
		return
	}
	if derr := s.cache.Delete(ctx, item.ID); derr != nil {
		s.log.ErrorContext(ctx, "stale item cache entry could not be evicted", "item_id", item.ID, "error", derr)
	}
}

// Create validates and persists a new Item, then publishes ItemCreatedEvent.
func (s *ItemService) Create(ctx context.Context, in CreateItemInput) (item *models.Item, err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.Create")
	defer func() { endSpan(span, err) }()

	name, price, err := parseFields(in.Name, in.Price)
	if err != nil {
		return nil, err
	}

	item, err = models.NewItem(name, in.Description, price)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	if err := domainsvcs.ValidateItem(item); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	span.SetAttributes(attribute.String("item.id", item.ID.String()))

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create")))

	msg, err := newEventMessage(itemevents.TypeItemCreated, item.ID, itemevents.ItemCreatedEvent{
		ItemID:      item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
	})
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, itemevents.TopicItemCreated, item.ID, msg); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item created", "item_id", item.ID)
	return item, nil
}

// Update overwrites name, description and price of an existing Item, then
// publishes the update event. ID and CreatedAt never change.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, in UpdateItemInput) (err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.Update", trace.WithAttributes(attribute.String("item.id", id.String())))
	defer func() { endSpan(span, err) }()

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	name, price, err := parseFields(in.Name, in.Price)
	if err != nil {
		return err
	}
	description := item.Description
	if in.Description != nil {
		description = *in.Description
	}

	item.Revise(name, description, price)
	if err := domainsvcs.ValidateItem(item); err != nil {
		return fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}

	if err := s.invalidate(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "update")))
	staleErr := s.invalidate(ctx, id)

	topic, eventType := itemevents.TopicItemUpdated, itemevents.TypeItemUpdated
	var payload any = itemevents.ItemUpdatedEvent{
		ItemID:      item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
	}
	if s.emitUpdateAsCreated {
		topic, eventType = itemevents.TopicItemCreated, itemevents.TypeItemCreated
		payload = itemevents.ItemCreatedEvent{
			ItemID:      item.ID,
			Name:        item.Name.String(),
			Description: item.Description,
		}
	}

	msg, err := newEventMessage(eventType, item.ID, payload)
	if err != nil {
		return err
	}
	if err := s.publish(ctx, topic, item.ID, msg); err != nil {
		return err
	}
	if staleErr != nil {
		return staleErr
	}

	s.log.InfoContext(ctx, "item updated", "item_id", item.ID)
	return nil
}

// Delete removes an existing Item, then publishes ItemDeletedEvent.
// Returns ErrItemNotFound, and publishes nothing, if the item does not exist.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.Delete", trace.WithAttributes(attribute.String("item.id", id.String())))
	defer func() { endSpan(span, err) }()

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if err := s.invalidate(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "delete")))
	staleErr := s.invalidate(ctx, id)

	msg, err := newEventMessage(itemevents.TypeItemDeleted, id, itemevents.ItemDeletedEvent{ItemID: id})
	if err != nil {
		return err
	}
	if err := s.publish(ctx, itemevents.TopicItemDeleted, id, msg); err != nil {
		return err
	}
	if staleErr != nil {
		return staleErr
	}

	s.log.InfoContext(ctx, "item deleted", "item_id", id)
	return nil
}

// publish hands msg to the bus. The change is already persisted, so a failure
// here is logged and counted and returned as ErrEventNotPublished.
func (s *ItemService) publish(ctx context.Context, topic string, itemID uuid.UUID, msg *message.Message) error {
	if err := s.publisher.Publish(ctx, topic, msg); err != nil {
		s.publishFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
		s.log.ErrorContext(ctx, "event publish failed after persist",
			"topic", topic, "item_id", itemID, "event_id", msg.UUID, "error", err)
		return fmt.Errorf("%w: %w", itemdomain.ErrEventNotPublished, err)
	}
	return nil
}

// invalidate drops the cached copy of an item. Mutations call it before the
// store write, where a failure aborts the operation, and again after it to
// evict any copy filled in between; the event still goes out in that case
// so the worker's eviction gets another chance.
func (s *ItemService) invalidate(ctx context.Context, id uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.ErrorContext(ctx, "item cache invalidation failed", "item_id", id, "error", err)
		return fmt.Errorf("%w: %w", itemdomain.ErrCacheInvalidation, err)
	}
	return nil
}

func parseFields(rawName string, rawPrice float64) (models.ItemName, models.Price, error) {
	name, err := models.NewItemName(rawName)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	price, err := models.NewPrice(rawPrice)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	return name, price, nil
}

func sameItem(a, b *models.Item) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Description == b.Description &&
		a.Price == b.Price && a.CreatedAt.Equal(b.CreatedAt)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func toCached(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price.Float64(),
		CreatedAt:   item.CreatedAt,
	}
}

func fromCached(c *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:          c.ID,
		Name:        models.ItemName(c.Name),
		Description: c.Description,
		Price:       models.Price(c.Price),
		CreatedAt:   c.CreatedAt,
	}
}
