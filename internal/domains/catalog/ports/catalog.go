package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
)

var (
	// ErrNetwork covers transport failures and non-success responses from the catalog service.
	ErrNetwork = errors.New("catalog service unreachable")
	// ErrDecode signals a response body that is not the expected shape.
	ErrDecode = errors.New("catalog response malformed")
	// ErrNotFound signals the requested pet does not exist upstream.
	ErrNotFound = errors.New("pet not found")
)

// Catalog is the read-only catalog service (outbound/driven port).
type Catalog interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListPets(ctx context.Context) ([]domain.PetRecord, error)
	ListPetsByCategory(ctx context.Context, category string) ([]domain.PetRecord, error)
	GetPet(ctx context.Context, id string) (*domain.PetRecord, error)
}
