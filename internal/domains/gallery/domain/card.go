package domain

import (
	"fmt"
	"time"

	catalog "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
)

// CardState tracks whether a card still shows its loading indicator.
type CardState string

const (
	CardLoading  CardState = "loading"
	CardRendered CardState = "rendered"
)

// AdoptState is the progress of a card's adopt control.
type AdoptState string

const (
	AdoptIdle     AdoptState = "idle"
	AdoptCounting AdoptState = "counting"
	AdoptDone     AdoptState = "adopted"
)

const (
	adoptLabel   = "Adopt"
	adoptedLabel = "Adopted"
)

// Adoption is the state of one adopt control. Once it leaves AdoptIdle it is disabled for good.
type Adoption struct {
	State     AdoptState
	Remaining int
	Label     string
}

// Disabled reports whether the control ignores further activations.
func (a Adoption) Disabled() bool {
	return a.State != AdoptIdle
}

// tick advances the countdown by one step and reports whether it settled.
func (a *Adoption) tick() bool {
	if a.State != AdoptCounting {
		return a.State == AdoptDone
	}
	if a.Remaining > 0 {
		a.Label = fmt.Sprintf("Adopting in %d...", a.Remaining)
		a.Remaining--
		return false
	}
	a.State = AdoptDone
	a.Label = adoptedLabel
	return true
}

// Card is one pet slot in the list. Key identifies the slot, not the pet:
// the same pet may appear in several cards across loads.
type Card struct {
	Key        string
	Pet        catalog.PetRecord
	State      CardState
	CreatedAt  time.Time
	RenderedAt time.Time
	Liked      bool
	Adopt      Adoption
}

func newCard(key string, pet catalog.PetRecord, createdAt time.Time) *Card {
	return &Card{
		Key:       key,
		Pet:       pet,
		State:     CardLoading,
		CreatedAt: createdAt,
		Adopt:     Adoption{State: AdoptIdle, Label: adoptLabel},
	}
}

// Ready reports whether the card shows its content and accepts interactions.
func (c *Card) Ready() bool {
	return c.State == CardRendered
}

// FilterControl is one category button.
type FilterControl struct {
	Category catalog.Category
	Active   bool
}

// LikedPet is one thumbnail in the liked collection.
type LikedPet struct {
	PetID    string
	Name     string
	ImageURL string
	LikedAt  time.Time
}

// ModalState is the visibility of the details overlay.
type ModalState string

const (
	ModalHidden  ModalState = "hidden"
	ModalVisible ModalState = "visible"
)

// Modal is the details overlay. It is created on first use and reused afterwards.
type Modal struct {
	State ModalState
	Pet   *catalog.PetRecord
}
