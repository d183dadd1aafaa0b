package memory

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog is an in-memory catalog used for offline development and tests.
type Catalog struct {
	mu         sync.RWMutex
	categories []domain.Category
	pets       []domain.PetRecord
}

// NewCatalog constructs a catalog holding the given categories and pets in order.
func NewCatalog(categories []domain.Category, pets []domain.PetRecord) *Catalog {
	return &Catalog{
		categories: append([]domain.Category{}, categories...),
		pets:       append([]domain.PetRecord{}, pets...),
	}
}

// ListCategories returns every category in insertion order.
func (c *Catalog) ListCategories(_ context.Context) ([]domain.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Category{}, c.categories...), nil
}

// ListPets returns every pet in insertion order.
func (c *Catalog) ListPets(_ context.Context) ([]domain.PetRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.PetRecord{}, c.pets...), nil
}

// ListPetsByCategory returns the pets filed under category (case-insensitive, like the upstream service).
func (c *Catalog) ListPetsByCategory(_ context.Context, category string) ([]domain.PetRecord, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.ErrEmptyCategoryName
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.PetRecord, 0)
	for _, p := range c.pets {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetPet returns the pet with the given identifier.
func (c *Catalog) GetPet(_ context.Context, id string) (*domain.PetRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.pets {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, ports.ErrNotFound
}

// Add appends a pet; useful for tests that grow the catalog between loads.
func (c *Catalog) Add(p domain.PetRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pets = append(c.pets, p)
}

type fixture struct {
	Categories []fixtureCategory `yaml:"categories"`
	Pets       []fixturePet      `yaml:"pets"`
}

type fixtureCategory struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type fixturePet struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Image       string  `yaml:"image"`
	Breed       *string `yaml:"breed"`
	DateOfBirth *string `yaml:"date_of_birth"`
	Gender      *string `yaml:"gender"`
	Price       *string `yaml:"price"`
	Description *string `yaml:"description"`
	Color       *string `yaml:"color"`
	Weight      *string `yaml:"weight"`
	Location    *string `yaml:"location"`
	Details     *string `yaml:"details"`
}

// LoadFixture reads a YAML fixture file into a Catalog.
func LoadFixture(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog fixture: %w", err)
	}
	defer f.Close()
	return DecodeFixture(f)
}

// DecodeFixture parses a YAML fixture document.
func DecodeFixture(r io.Reader) (*Catalog, error) {
	var doc fixture
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog fixture: %w", err)
	}
	categories := make([]domain.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		categories = append(categories, domain.Category{Name: c.Name, IconURL: c.Icon})
	}
	pets := make([]domain.PetRecord, 0, len(doc.Pets))
	for i, p := range doc.Pets {
		record := domain.PetRecord{
			ID:          strings.TrimSpace(p.ID),
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
		if p.Price != nil {
			price := domain.NewPrice(*p.Price)
			record.Price = &price
		}
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("fixture pet #%d: %w", i+1, err)
		}
		pets = append(pets, record)
	}
	return NewCatalog(categories, pets), nil
}
