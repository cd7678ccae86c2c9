package model

// CatalogItem is one entry of a screen catalog: a retail product, a manufacturer
// listing, a service provider, a pre-owned product or an event.
//
// Fields the feed did not carry are left empty; the Has* flags distinguish an
// absent field from one present with an empty value.
type CatalogItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Category    string  `json:"category,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       string  `json:"price,omitempty"` // raw feed text, parsed on demand
	Phone       string  `json:"phone,omitempty"`
	Image       string  `json:"image,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Timestamp   float64 `json:"timestamp,omitempty"`

	// Event listings.
	Title    string `json:"title,omitempty"`
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`

	HasName        bool `json:"-"`
	HasCategory    bool `json:"-"`
	HasDescription bool `json:"-"`
	HasTitle       bool `json:"-"`
}

// Category is a browsable category tile.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
	Group string `json:"group,omitempty"`
}

// CategoryGroup is a named bucket of categories, in first-seen order.
type CategoryGroup struct {
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// Banner is one carousel image.
type Banner struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
