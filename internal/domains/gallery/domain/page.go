// Package domain holds the per-session catalog page state.
package domain

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	catalog "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
)

const (
	// NoticeEmptyCategory replaces the card list when a category load returns nothing.
	NoticeEmptyCategory = "No pets available for this category."
	// NoticeEmptyCatalog replaces the card list when the full catalog is empty.
	NoticeEmptyCatalog = "No pets available."
)

var (
	ErrMissingElement  = errors.New("target element not on the page")
	ErrCardNotReady    = errors.New("card is still loading")
	ErrUnknownCategory = errors.New("category has no filter control")
)

// Page is the state of one catalog page. Every mutation goes through its
// methods, which serialize on a single mutex.
type Page struct {
	mu sync.Mutex

	id              string
	started         bool
	startupFailed   bool
	currentCategory string
	filters         []FilterControl
	cards           []*Card
	notice          string
	liked           []LikedPet
	modal           *Modal
	detailsSeq      uint64
}

// NewPage creates an empty page for the given session.
func NewPage(id string) *Page {
	return &Page{id: id}
}

// ID is the owning session identifier.
func (p *Page) ID() string {
	return p.id
}

// MarkStarted reports true for the caller that should run the startup loads:
// on first contact, and again after a failed startup when retry is set. A
// startup in flight is never run twice.
func (p *Page) MarkStarted(retry bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started && !(retry && p.startupFailed) {
		return false
	}
	p.started = true
	p.startupFailed = false
	return true
}

// FinishStartup records the outcome of the startup loads begun by MarkStarted.
func (p *Page) FinishStartup(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startupFailed = err != nil
}

// SetFilters replaces the filter controls with one control per category. Only the
// control of the currently loaded category, if any, is active.
func (p *Page) SetFilters(categories []catalog.Category) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = make([]FilterControl, 0, len(categories))
	for _, c := range categories {
		p.filters = append(p.filters, FilterControl{Category: c, Active: c.Name == p.currentCategory && c.Name != ""})
	}
}

// HasFilter reports whether a filter control exists for category.
func (p *Page) HasFilter(category string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filterIndex(category) >= 0
}

func (p *Page) filterIndex(category string) int {
	category = strings.TrimSpace(category)
	for i, f := range p.filters {
		if f.Category.Name == category {
			return i
		}
	}
	return -1
}

// ApplyLoad replaces the list with the result of one load. An empty category
// means the full catalog. All filters are reset first and the selected one is
// marked active; the list is cleared once, then filled with loading cards or
// exactly one notice. It returns the keys of the new cards in list order.
func (p *Page) ApplyLoad(category string, pets []catalog.PetRecord, createdAt time.Time) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	category = strings.TrimSpace(category)
	selected := -1
	if category != "" {
		if selected = p.filterIndex(category); selected < 0 {
			return nil, ErrUnknownCategory
		}
	}
	for i := range p.filters {
		p.filters[i].Active = i == selected
	}
	p.currentCategory = category

	p.cards = make([]*Card, 0, len(pets))
	p.notice = ""
	if len(pets) == 0 {
		p.notice = NoticeEmptyCatalog
		if category != "" {
			p.notice = NoticeEmptyCategory
		}
		return nil, nil
	}

	keys := make([]string, 0, len(pets))
	for _, pet := range pets {
		card := newCard(uuid.NewString(), pet, createdAt)
		p.cards = append(p.cards, card)
		keys = append(keys, card.Key)
	}
	return keys, nil
}

// RenderCard switches a loading card to its rendered content. Rendering an
// already rendered card is a no-op.
func (p *Page) RenderCard(key string, at time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	card := p.card(key)
	if card == nil {
		return ErrMissingElement
	}
	if card.State == CardRendered {
		return nil
	}
	card.State = CardRendered
	card.RenderedAt = at
	return nil
}

func (p *Page) card(key string) *Card {
	for _, c := range p.cards {
		if c.Key == key {
			return c
		}
	}
	return nil
}

func (p *Page) readyCard(key string) (*Card, error) {
	card := p.card(key)
	if card == nil {
		return nil, ErrMissingElement
	}
	if !card.Ready() {
		return nil, ErrCardNotReady
	}
	return card, nil
}

// MarkLiked switches the card's like control to its liked style and returns the card's pet.
// Liking an already liked card is allowed.
func (p *Page) MarkLiked(key string) (catalog.PetRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	card, err := p.readyCard(key)
	if err != nil {
		return catalog.PetRecord{}, err
	}
	card.Liked = true
	return card.Pet, nil
}

// AppendLiked adds a thumbnail to the liked collection. Duplicates are kept.
func (p *Page) AppendLiked(liked LikedPet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.liked = append(p.liked, liked)
}

// BeginAdopt disables the card's adopt control and arms a countdown from `from`.
// It reports false when the control was already disabled.
func (p *Page) BeginAdopt(key string, from int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	card, err := p.readyCard(key)
	if err != nil {
		return false, err
	}
	if card.Adopt.Disabled() {
		return false, nil
	}
	card.Adopt.State = AdoptCounting
	card.Adopt.Remaining = from
	return true, nil
}

// AdoptTick advances the card's countdown and reports whether it settled on "Adopted".
func (p *Page) AdoptTick(key string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	card := p.card(key)
	if card == nil {
		return false, ErrMissingElement
	}
	return card.Adopt.tick(), nil
}

// PetForCard returns the pet behind a rendered card.
func (p *Page) PetForCard(key string) (catalog.PetRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	card, err := p.readyCard(key)
	if err != nil {
		return catalog.PetRecord{}, err
	}
	return card.Pet, nil
}

// HasRenderedPet reports whether any rendered card carries the pet id.
func (p *Page) HasRenderedPet(petID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.cards {
		if c.Ready() && c.Pet.ID == petID {
			return true
		}
	}
	return false
}

// BeginDetails creates the modal if needed and issues the token of a new details request.
func (p *Page) BeginDetails() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.modal == nil {
		p.modal = &Modal{State: ModalHidden}
	}
	p.detailsSeq++
	return p.detailsSeq
}

// ApplyDetails shows pet in the modal if seq is still the latest issued token.
// It reports false for a stale response, leaving the modal untouched.
func (p *Page) ApplyDetails(seq uint64, pet catalog.PetRecord) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.detailsSeq || p.modal == nil {
		return false
	}
	p.modal.State = ModalVisible
	p.modal.Pet = &pet
	return true
}

// CloseDetails hides the modal without discarding it.
func (p *Page) CloseDetails() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.modal != nil {
		p.modal.State = ModalHidden
	}
}

// SortByPrice orders the cards by price, highest first. Pets without a
// numeric price count as zero. Equal prices end up in reverse of their prior
// order. A notice is left alone.
func (p *Page) SortByPrice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.cards) < 2 {
		return
	}
	slices.SortStableFunc(p.cards, func(a, b *Card) int {
		return a.Pet.SortKey().Cmp(b.Pet.SortKey())
	})
	slices.Reverse(p.cards)
}
