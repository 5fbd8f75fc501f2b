package db

import (
	"time"

	"github.com/google/uuid"
)

type ItemItem struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
	CreatedAt   time.Time
}
