package models

import (
	"fmt"
	"math"
)

// Price is a value object for an item's price. Valid range: 0 <= price <= 1000.
type Price float64

const (
	MinPrice Price = 0
	MaxPrice Price = 1000
)

// NewPrice constructs a valid Price or returns an error if the value is out of range.
func NewPrice(v float64) (Price, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("price must be a finite number")
	}
	if Price(v) < MinPrice {
		return 0, fmt.Errorf("price must be at least %v", float64(MinPrice))
	}
	if Price(v) > MaxPrice {
		return 0, fmt.Errorf("price must not exceed %v", float64(MaxPrice))
	}
	return Price(v), nil
}

// Float64 returns the underlying numeric value.
func (p Price) Float64() float64 {
	return float64(p)
}
