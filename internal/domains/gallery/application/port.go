package application

import (
	"context"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/domain"
)

// Port defines the page use cases exposed to adapters.
type Port interface {
	Start(ctx context.Context, page *domain.Page) error
	LoadCategories(ctx context.Context, page *domain.Page) error
	LoadAllPets(ctx context.Context, page *domain.Page) error
	LoadPetsByCategory(ctx context.Context, page *domain.Page, category string) error
	Like(ctx context.Context, page *domain.Page, cardKey string) error
	Adopt(ctx context.Context, page *domain.Page, cardKey string) error
	ShowDetails(ctx context.Context, page *domain.Page, petID string) error
	ShowDetailsForCard(ctx context.Context, page *domain.Page, cardKey string) error
	CloseDetails(ctx context.Context, page *domain.Page)
	Sort(ctx context.Context, page *domain.Page)
}

var _ Port = (*Service)(nil)
