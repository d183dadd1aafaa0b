package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Category groups pets in the catalog. The name doubles as the lookup key of
// its filter control, so names must be unique within a loaded set.
type Category struct {
	Name    string
	IconURL string
}

// PetRecord is one pet as published by the catalog service.
// Optional attributes are nil when the service omitted them or sent null.
type PetRecord struct {
	ID       string
	Name     string
	Category string
	ImageURL string

	Breed       *string
	DateOfBirth *string
	Gender      *string
	Price       *Price
	Description *string
	Color       *string
	Weight      *string
	Location    *string
	Details     *string
}

var (
	ErrEmptyPetID        = errors.New("pet id is required")
	ErrEmptyCategoryName = errors.New("category name is required")
)

// Validate checks the attributes the catalog cannot render without.
func (p PetRecord) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyPetID
	}
	return nil
}

// SortKey is the numeric price used for ordering; missing or unparseable prices count as zero.
func (p PetRecord) SortKey() decimal.Decimal {
	if p.Price == nil {
		return decimal.Zero
	}
	amount, ok := p.Price.Amount()
	if !ok {
		return decimal.Zero
	}
	return amount
}

// DedupeCategories keeps the first category for every name and reports the
// names that were dropped. Categories without a name are dropped as well.
func DedupeCategories(categories []Category) ([]Category, []string) {
	seen := make(map[string]struct{}, len(categories))
	out := make([]Category, 0, len(categories))
	var dropped []string
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			dropped = append(dropped, c.Name)
			continue
		}
		if _, ok := seen[name]; ok {
			dropped = append(dropped, name)
			continue
		}
		seen[name] = struct{}{}
		c.Name = name
		out = append(out, c)
	}
	return out, dropped
}
