package model

import "github.com/shopspring/decimal"

// Tire is a sellable tire SKU.
type Tire struct {
	ID     string          `json:"id"`
	Brand  string          `json:"brand"`
	Size   string          `json:"size"`
	Season string          `json:"season"`
	Year   int             `json:"year"`
	Price  decimal.Decimal `json:"price"`
	Stock  int             `json:"stock"`

	// Unknown marks a placeholder for a tire that no longer exists in the catalog.
	Unknown bool `json:"unknown,omitempty"`
}

// Seasons used by the catalog forms. The catalog does not enforce them.
const (
	SeasonSummer    = "summer"
	SeasonWinter    = "winter"
	SeasonAllSeason = "all-season"
)

// UnknownTireLabel is the brand shown for sales or deliveries whose tire was removed.
const UnknownTireLabel = "unknown tire"

// UnknownTire returns the placeholder used when a referenced tire is missing.
func UnknownTire(id string) Tire {
	return Tire{ID: id, Brand: UnknownTireLabel, Unknown: true}
}

// TireInput holds the fields needed to add a tire to the catalog.
type TireInput struct {
	Brand  string          `json:"brand"`
	Size   string          `json:"size"`
	Season string          `json:"season"`
	Year   int             `json:"year"`
	Price  decimal.Decimal `json:"price"`
	Stock  int             `json:"stock"`
}

// TireUpdate holds the editable catalog fields. Nil fields are left unchanged.
// Stock is deliberately absent.
type TireUpdate struct {
	Brand  *string          `json:"brand,omitempty"`
	Size   *string          `json:"size,omitempty"`
	Season *string          `json:"season,omitempty"`
	Year   *int             `json:"year,omitempty"`
	Price  *decimal.Decimal `json:"price,omitempty"`
}

// Tire sort keys.
const (
	SortByBrand = "brand"
	SortByPrice = "price"
	SortByStock = "stock"
	SortByYear  = "year"
)

// TireQuery filters and orders a catalog listing.
type TireQuery struct {
	// Search matches brand, size or season, case-insensitively.
	Search string
	SortBy string
	Desc   bool
}
