package domain

import (
	catalog "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
)

// View is an immutable snapshot of a page, with every descriptive attribute
// already passed through the formatter.
type View struct {
	SessionID       string       `json:"sessionId"`
	CurrentCategory string       `json:"currentCategory,omitempty"`
	Filters         []FilterView `json:"filters"`
	Cards           []CardView   `json:"cards"`
	Notice          string       `json:"notice,omitempty"`
	Liked           []LikedView  `json:"liked"`
	Modal           *ModalView   `json:"modal,omitempty"`
	// Pending is true while any card is loading or any countdown is running.
	Pending bool `json:"pending"`
}

type FilterView struct {
	Name    string `json:"name"`
	IconURL string `json:"iconUrl"`
	Active  bool   `json:"active"`
}

type CardView struct {
	Key           string `json:"key"`
	Loading       bool   `json:"loading"`
	PetID         string `json:"petId"`
	Name          string `json:"name"`
	ImageURL      string `json:"imageUrl"`
	Breed         string `json:"breed"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	Price         string `json:"price"`
	Liked         bool   `json:"liked"`
	AdoptLabel    string `json:"adoptLabel"`
	AdoptDisabled bool   `json:"adoptDisabled"`
	Adopted       bool   `json:"adopted"`
}

type LikedView struct {
	PetID    string `json:"petId"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type ModalView struct {
	Visible bool                 `json:"visible"`
	Pet     *catalog.Description `json:"pet,omitempty"`
}

// Snapshot copies the page state into a View.
func (p *Page) Snapshot() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		SessionID:       p.id,
		CurrentCategory: p.currentCategory,
		Filters:         make([]FilterView, 0, len(p.filters)),
		Cards:           make([]CardView, 0, len(p.cards)),
		Notice:          p.notice,
		Liked:           make([]LikedView, 0, len(p.liked)),
	}
	for _, f := range p.filters {
		v.Filters = append(v.Filters, FilterView{Name: f.Category.Name, IconURL: f.Category.IconURL, Active: f.Active})
	}
	for _, c := range p.cards {
		cv := CardView{Key: c.Key, Loading: !c.Ready()}
		if c.Ready() {
			d := catalog.Describe(c.Pet)
			cv.PetID = d.ID
			cv.Name = d.Name
			cv.ImageURL = d.ImageURL
			cv.Breed = d.Breed
			cv.DateOfBirth = d.DateOfBirth
			cv.Gender = d.Gender
			cv.Price = d.Price
			cv.Liked = c.Liked
			cv.AdoptLabel = c.Adopt.Label
			cv.AdoptDisabled = c.Adopt.Disabled()
			cv.Adopted = c.Adopt.State == AdoptDone
		}
		if !c.Ready() || c.Adopt.State == AdoptCounting {
			v.Pending = true
		}
		v.Cards = append(v.Cards, cv)
	}
	for _, l := range p.liked {
		v.Liked = append(v.Liked, LikedView{PetID: l.PetID, Name: l.Name, ImageURL: l.ImageURL})
	}
	if p.modal != nil {
		mv := &ModalView{Visible: p.modal.State == ModalVisible}
		if p.modal.Pet != nil {
			d := catalog.Describe(*p.modal.Pet)
			mv.Pet = &d
		}
		v.Modal = mv
	}
	return v
}
