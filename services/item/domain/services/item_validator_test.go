package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/playcatalog/services/item/domain/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input models.ItemName
		want  error
	}{
		{"plain", "Sword", nil},
		{"punctuation", "Sword+1 (Legendary)!", nil},
		{"unicode", "Épée", nil},
		{"inner spaces", "Long Sword", nil},
		{"only whitespace", "   ", ErrBlankName},
		{"tab", "Name\tName", ErrNameControlChar},
		{"newline", "Name\nName", ErrNameControlChar},
		{"null byte", "Name\x00", ErrNameControlChar},
		{"DEL", "Name\x7F", ErrNameControlChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateName(tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("ValidateName(%q) = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", nil},
		{"multi-line", "Sharp.\nVery sharp.", nil},
		{"long", strings.Repeat("é", 10000), nil},
		{"invalid utf8", "\xff", ErrDescriptionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateDescription(tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("ValidateDescription = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateItem(t *testing.T) {
	valid := func() *models.Item {
		return &models.Item{
			ID:          uuid.New(),
			Name:        "Sword",
			Description: "Sharp",
			Price:       100,
			CreatedAt:   time.Now().UTC(),
		}
	}

	if err := ValidateItem(valid()); err != nil {
		t.Fatalf("valid item: unexpected error: %v", err)
	}
	if err := ValidateItem(nil); err == nil {
		t.Fatal("nil item: expected error")
	}

	tests := []struct {
		name   string
		mutate func(*models.Item)
		want   error
	}{
		{"zero id", func(i *models.Item) { i.ID = uuid.Nil }, nil},
		{"zero created_at", func(i *models.Item) { i.CreatedAt = time.Time{} }, nil},
		{"price above range", func(i *models.Item) { i.Price = 1000.5 }, nil},
		{"negative price", func(i *models.Item) { i.Price = -1 }, nil},
		{"control char in name", func(i *models.Item) { i.Name = "name\x00control" }, ErrNameControlChar},
		{"blank name", func(i *models.Item) { i.Name = " " }, ErrBlankName},
		{"invalid description", func(i *models.Item) { i.Description = "\xff" }, ErrDescriptionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid()
			tt.mutate(item)
			err := ValidateItem(item)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
