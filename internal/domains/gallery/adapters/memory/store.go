package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/domain"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/ports"
)

const (
	DefaultCapacity = 1024
	DefaultTTL      = 30 * time.Minute
)

var _ ports.PageStore = (*Store)(nil)

// Store keeps pages in a size-bounded LRU whose entries expire after a TTL.
type Store struct {
	pages *expirable.LRU[string, *domain.Page]
	newID func() string
}

// NewStore builds a store holding at most capacity pages, each for ttl since its creation.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		pages: expirable.NewLRU[string, *domain.Page](capacity, nil, ttl),
		newID: uuid.NewString,
	}
}

// Get returns the page for id, or false when unknown or expired.
func (s *Store) Get(_ context.Context, id string) (*domain.Page, bool) {
	if id == "" {
		return nil, false
	}
	return s.pages.Get(id)
}

// Create allocates a page under a fresh session id.
func (s *Store) Create(_ context.Context) (*domain.Page, error) {
	page := domain.NewPage(s.newID())
	s.pages.Add(page.ID(), page)
	return page, nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	return s.pages.Len()
}
