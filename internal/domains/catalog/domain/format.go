package domain

// Placeholder replaces every optional attribute the catalog left empty.
const Placeholder = "No data"

// Text returns the attribute unchanged when present and Placeholder otherwise.
func Text(v *string) string {
	return orPlaceholder(v, func(s string) string { return s })
}

// PriceText returns the published price text when present and Placeholder otherwise.
func PriceText(p *Price) string {
	return orPlaceholder(p, Price.String)
}

func orPlaceholder[T any](v *T, render func(T) string) string {
	if v == nil {
		return Placeholder
	}
	return render(*v)
}

// Description is the display form of a pet: every optional attribute has
// already been through the formatter.
type Description struct {
	ID          string `json:"petId"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Breed       string `json:"breed"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Weight      string `json:"weight"`
	Location    string `json:"location"`
	Details     string `json:"details"`
}

// Describe formats every descriptive attribute of p for display.
func Describe(p PetRecord) Description {
	return Description{
		ID:          p.ID,
		Name:        p.Name,
		ImageURL:    p.ImageURL,
		Breed:       Text(p.Breed),
		DateOfBirth: Text(p.DateOfBirth),
		Gender:      Text(p.Gender),
		Price:       PriceText(p.Price),
		Description: Text(p.Description),
		Color:       Text(p.Color),
		Weight:      Text(p.Weight),
		Location:    Text(p.Location),
		Details:     Text(p.Details),
	}
}
