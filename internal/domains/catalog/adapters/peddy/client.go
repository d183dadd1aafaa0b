// Package peddy adapts the public Peddy pet API to the catalog port.
package peddy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-pet-catalog/internal/platform/httpclient"
)

// DefaultBaseURL is the public Peddy API root.
const DefaultBaseURL = "https://openapi.programming-hero.com/api/peddy"

var _ ports.Catalog = (*Client)(nil)

// Client is the catalog port backed by the Peddy REST API.
type Client struct {
	http *httpclient.Client
}

// NewClient wraps a configured httpclient. The client's BaseURL must point at the API root.
func NewClient(c *httpclient.Client) (*Client, error) {
	if c == nil {
		return nil, errors.New("peddy: http client is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("peddy: base URL is required")
	}
	return &Client{http: c}, nil
}

// ListCategories fetches GET /categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var env categoriesEnvelope
	if err := c.get(ctx, "/categories", &env); err != nil {
		return nil, err
	}
	if env.Categories == nil {
		return nil, fmt.Errorf("%w: missing categories", ports.ErrDecode)
	}
	out := make([]domain.Category, 0, len(*env.Categories))
	for _, dto := range *env.Categories {
		out = append(out, dto.toDomain())
	}
	return out, nil
}

// ListPets fetches GET /pets.
func (c *Client) ListPets(ctx context.Context) ([]domain.PetRecord, error) {
	var env petsEnvelope
	if err := c.get(ctx, "/pets", &env); err != nil {
		return nil, err
	}
	if env.Pets == nil {
		return nil, fmt.Errorf("%w: missing pets", ports.ErrDecode)
	}
	return decodePets(*env.Pets)
}

// ListPetsByCategory fetches GET /category/{name}.
func (c *Client) ListPetsByCategory(ctx context.Context, category string) ([]domain.PetRecord, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.ErrEmptyCategoryName
	}
	segment, err := runtime.StyleParamWithLocation("simple", false, "category", runtime.ParamLocationPath, category)
	if err != nil {
		return nil, fmt.Errorf("encode category: %w", err)
	}
	var env categoryPetsEnvelope
	if err := c.get(ctx, "/category/"+segment, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: missing data", ports.ErrDecode)
	}
	return decodePets(*env.Data)
}

// GetPet fetches GET /pet/{id}.
func (c *Client) GetPet(ctx context.Context, id string) (*domain.PetRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrEmptyPetID
	}
	segment, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return nil, fmt.Errorf("encode pet id: %w", err)
	}
	var env petEnvelope
	if err := c.get(ctx, "/pet/"+segment, &env); err != nil {
		return nil, err
	}
	if env.PetData == nil {
		return nil, fmt.Errorf("%w: pet %s", ports.ErrNotFound, id)
	}
	record, err := env.PetData.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrDecode, err)
	}
	return &record, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	err := c.http.GetJSON(ctx, path, out)
	if err == nil {
		return nil
	}
	var httpErr *httpclient.HTTPError
	switch {
	case errors.Is(err, httpclient.ErrDecode):
		return fmt.Errorf("%w: %v", ports.ErrDecode, err)
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %v", ports.ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ports.ErrNetwork, err)
	}
}

func decodePets(dtos []petDTO) ([]domain.PetRecord, error) {
	pets, err := toDomainPets(dtos)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrDecode, err)
	}
	return pets, nil
}
