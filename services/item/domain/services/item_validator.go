// Package services holds stateless domain rules for catalog items.
package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ghuser/playcatalog/services/item/domain/models"
)

var (
	ErrBlankName          = errors.New("item name must not be only whitespace")
	ErrNameControlChar    = errors.New("item name must not contain control characters")
	ErrDescriptionInvalid = errors.New("item description must be valid UTF-8")
)

// ValidateName rejects names that pass the ItemName constructor but are
// blank or carry control characters.
func ValidateName(name models.ItemName) error {
	s := name.String()
	if strings.TrimSpace(s) == "" {
		return ErrBlankName
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return ErrNameControlChar
	}
	return nil
}

// ValidateDescription allows empty and multi-line text of any length.
func ValidateDescription(description string) error {
	if !utf8.ValidString(description) {
		return ErrDescriptionInvalid
	}
	return nil
}

// ValidateItem checks a fully built Item before it is persisted, on create
// and on update alike.
func ValidateItem(item *models.Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}
	if item.ID == uuid.Nil {
		return errors.New("id must be set")
	}
	if item.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	if err := ValidateName(item.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}
	if err := ValidateDescription(item.Description); err != nil {
		return fmt.Errorf("invalid description: %w", err)
	}
	if _, err := models.NewPrice(item.Price.Float64()); err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	return nil
}
