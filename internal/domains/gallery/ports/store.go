package ports

import (
	"context"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/domain"
)

// PageStore keeps one page per browser session (outbound/driven port).
type PageStore interface {
	// Get returns the page for id, or false when unknown or expired.
	Get(ctx context.Context, id string) (*domain.Page, bool)
	// Create allocates a page under a fresh session id.
	Create(ctx context.Context) (*domain.Page, error)
	// Len reports the number of live sessions.
	Len() int
}
