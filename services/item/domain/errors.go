package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist (never created or deleted).
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyExists indicates an item with the same identifier already exists.
	ErrItemAlreadyExists = errors.New("item already exists")

	// ErrInvalidItem indicates the item's fields violate domain constraints
	// (empty name, price outside 0–1000). Nothing is persisted or published.
	ErrInvalidItem = errors.New("invalid item")
)

// ErrEventNotPublished indicates the change was persisted but its event could not
// be handed to the bus. The store and the event stream disagree until the next change.
var ErrEventNotPublished = errors.New("item change persisted but event not published")

// ErrCacheInvalidation indicates the cached copy of an item could not be evicted.
// Raised before the store write, nothing was changed.
var ErrCacheInvalidation = errors.New("item cache invalidation failed")
