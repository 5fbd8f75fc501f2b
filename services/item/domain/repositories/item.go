package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/playcatalog/services/item/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Implementations report a missing key as domain.ErrItemNotFound and must
// serialize conflicting writes to the same ID themselves (last write wins).
type ItemRepository interface {
	// GetAll returns every item in store-defined order.
	GetAll(ctx context.Context) ([]*models.Item, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// Create inserts a new item. Returns domain.ErrItemAlreadyExists on a duplicate ID.
	Create(ctx context.Context, item *models.Item) error

	// Update overwrites name, description and price of an existing item.
	Update(ctx context.Context, item *models.Item) error

	// Delete removes an item by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
