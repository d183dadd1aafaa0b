package peddy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
)

type categoriesEnvelope struct {
	Categories *[]categoryDTO `json:"categories"`
}

type petsEnvelope struct {
	Pets *[]petDTO `json:"pets"`
}

type categoryPetsEnvelope struct {
	Data *[]petDTO `json:"data"`
}

type petEnvelope struct {
	PetData *petDTO `json:"petData"`
}

type categoryDTO struct {
	Category     string `json:"category"`
	CategoryIcon string `json:"category_icon"`
}

type petDTO struct {
	PetID       flexString      `json:"petId"`
	Name        string          `json:"pet_name"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Breed       *string         `json:"breed"`
	DateOfBirth *string         `json:"date_of_birth"`
	Gender      *string         `json:"gender"`
	Price       json.RawMessage `json:"price"`
	Description *string         `json:"description"`
	Color       *string         `json:"color"`
	Weight      *string         `json:"weight"`
	Location    *string         `json:"location"`
	Details     *string         `json:"pet_details"`
}

// flexString accepts a JSON string or number; the service sends numeric pet ids.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("petId: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

func (c categoryDTO) toDomain() domain.Category {
	return domain.Category{Name: c.Category, IconURL: c.CategoryIcon}
}

func (p petDTO) toDomain() (domain.PetRecord, error) {
	record := domain.PetRecord{
		ID:          strings.TrimSpace(string(p.PetID)),
		Name:        p.Name,
		Category:    p.Category,
		ImageURL:    p.Image,
		Breed:       p.Breed,
		DateOfBirth: p.DateOfBirth,
		Gender:      p.Gender,
		Description: p.Description,
		Color:       p.Color,
		Weight:      p.Weight,
		Location:    p.Location,
		Details:     p.Details,
	}
	price, err := decodePrice(p.Price)
	if err != nil {
		return domain.PetRecord{}, err
	}
	record.Price = price
	if err := record.Validate(); err != nil {
		return domain.PetRecord{}, err
	}
	return record, nil
}

// decodePrice keeps the upstream text of a string or number price; null or absent means missing.
func decodePrice(raw json.RawMessage) (*domain.Price, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		price := domain.NewPrice(s)
		return &price, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	price := domain.NewPrice(n.String())
	return &price, nil
}

func toDomainPets(dtos []petDTO) ([]domain.PetRecord, error) {
	out := make([]domain.PetRecord, 0, len(dtos))
	for i, dto := range dtos {
		record, err := dto.toDomain()
		if err != nil {
			return nil, fmt.Errorf("pet #%d: %w", i+1, err)
		}
		out = append(out, record)
	}
	return out, nil
}
