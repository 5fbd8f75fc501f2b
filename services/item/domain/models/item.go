package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is the catalog record aggregate.
// ID and CreatedAt are fixed at creation; only Name, Description and Price change.
type Item struct {
	ID          uuid.UUID
	Name        ItemName
	Description string
	Price       Price
	CreatedAt   time.Time
}

// NewItem constructs a valid Item aggregate with generated ID and current timestamp.
// CreatedAt is truncated to microseconds, the resolution Postgres stores.
func NewItem(name ItemName, description string, price Price) (*Item, error) {
	return &Item{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}, nil
}

// Revise overwrites the mutable fields in place, leaving ID and CreatedAt untouched.
func (i *Item) Revise(name ItemName, description string, price Price) {
	i.Name = name
	i.Description = description
	i.Price = price
}
