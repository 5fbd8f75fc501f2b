package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached items.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "item"
)

// CachedItem is the denormalized read model stored in Redis as a hash.
type CachedItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemCache provides structured read/write operations for item cache entries.
// Key format: "item:{itemID}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, itemID uuid.UUID) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, ItemKey(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}
	return decodeItem(vals)
}

// Set writes a cached item as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key := ItemKey(item.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.HSet(ctx, key, encodeItem(item)...)
	pipe.Expire(ctx, key, ItemCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached item. Deleting a missing key is not an error.
func (c *ItemCache) Delete(ctx context.Context, itemID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, ItemKey(itemID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// ItemKey builds the Redis key: "item:{itemID}"
func ItemKey(itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", itemCacheKeyPrefix, itemID)
}

func encodeItem(item *CachedItem) []any {
	return []any{
		"id", item.ID.String(),
		"name", item.Name,
		"description", item.Description,
		"price", strconv.FormatFloat(item.Price, 'f', -1, 64),
		"created_at", item.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeItem(vals map[string]string) (*CachedItem, error) {
	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	price, err := strconv.ParseFloat(vals["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse price: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}

	return &CachedItem{
		ID:          id,
		Name:        vals["name"],
		Description: vals["description"],
		Price:       price,
		CreatedAt:   createdAt.UTC(),
	}, nil
}
