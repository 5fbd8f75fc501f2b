package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const deleteItem = `-- name: DeleteItem :execrows
DELETE FROM item.item
WHERE id = $1
`

func (q *Queries) DeleteItem(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getItemByID = `-- name: GetItemByID :one
SELECT id, name, description, price, created_at
FROM item.item
WHERE id = $1
`

func (q *Queries) GetItemByID(ctx context.Context, id uuid.UUID) (ItemItem, error) {
	row := q.db.QueryRowContext(ctx, getItemByID, id)
	var i ItemItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.CreatedAt,
	)
	return i, err
}

const insertItem = `-- name: InsertItem :exec
INSERT INTO item.item (id, name, description, price, created_at)
VALUES ($1, $2, $3, $4, $5)
`

type InsertItemParams struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
	CreatedAt   time.Time
}

func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) error {
	_, err := q.db.ExecContext(ctx, insertItem,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.CreatedAt,
	)
	return err
}

const listItems = `-- name: ListItems :many
SELECT id, name, description, price, created_at
FROM item.item
ORDER BY created_at, id
`

func (q *Queries) ListItems(ctx context.Context) ([]ItemItem, error) {
	rows, err := q.db.QueryContext(ctx, listItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ItemItem
	for rows.Next() {
		var i ItemItem
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Price,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateItem = `-- name: UpdateItem :execrows
UPDATE item.item
SET name = $2, description = $3, price = $4
WHERE id = $1
`

type UpdateItemParams struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
}

func (q *Queries) UpdateItem(ctx context.Context, arg UpdateItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateItem,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
