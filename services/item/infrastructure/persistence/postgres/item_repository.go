package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/playcatalog/pkg/database"
	itemdomain "github.com/ghuser/playcatalog/services/item/domain"
	"github.com/ghuser/playcatalog/services/item/domain/models"
	"github.com/ghuser/playcatalog/services/item/infrastructure/persistence/postgres/db"
)

const pgUniqueViolation = "23505"

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db *database.Database
}

// NewItemRepository returns an ItemRepository backed by the given connection pool.
func NewItemRepository(database *database.Database) *ItemRepository {
	return &ItemRepository{db: database}
}

// GetAll returns every item ordered by creation time.
func (r *ItemRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	rows, err := db.New(r.db.DB()).ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, nil
}

// GetByID retrieves an Item by ID. Returns ErrItemNotFound if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row, err := db.New(r.db.DB()).GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return rowToItem(row), nil
}

// Create inserts a new Item. Returns ErrItemAlreadyExists on unique constraint violations.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := db.New(r.db.DB()).InsertItem(ctx, db.InsertItemParams{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price.Float64(),
		CreatedAt:   item.CreatedAt,
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return itemdomain.ErrItemAlreadyExists
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update persists name, description and price of an existing Item.
// Returns ErrItemNotFound if the row was deleted concurrently.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	n, err := db.New(r.db.DB()).UpdateItem(ctx, db.UpdateItemParams{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price.Float64(),
	})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

// Delete removes an item by ID. Returns ErrItemNotFound if nothing was removed.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := db.New(r.db.DB()).DeleteItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

// rowToItem maps a db.ItemItem to a domain models.Item.
func rowToItem(row db.ItemItem) *models.Item {
	return &models.Item{
		ID:          row.ID,
		Name:        models.ItemName(row.Name),
		Description: row.Description,
		Price:       models.Price(row.Price),
		CreatedAt:   row.CreatedAt.UTC(),
	}
}
