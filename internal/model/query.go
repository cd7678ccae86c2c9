package model

// FilterKind selects how FilterCriteria narrows a list.
type FilterKind string

const (
	FilterNone     FilterKind = "none"
	FilterCategory FilterKind = "category"
	FilterText     FilterKind = "text"
	FilterBrand    FilterKind = "brand"
)

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "All"

// FilterCriteria is a single filter directive.
type FilterCriteria struct {
	Kind  FilterKind `json:"kind"`
	Value string     `json:"value,omitempty"`
}

// SortOrder is an optional ordering directive.
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "desc"
	SortNewest    SortOrder = "newest"
)

// ValidSortOrders returns the accepted sort directives.
func ValidSortOrders() []SortOrder {
	return []SortOrder{SortNone, SortPriceAsc, SortPriceDesc, SortNewest}
}

// IsValidSort reports whether s is an accepted sort directive.
func IsValidSort(s SortOrder) bool {
	for _, o := range ValidSortOrders() {
		if o == s {
			return true
		}
	}
	return false
}

// QueryState is the per-request view state of a screen. It is never persisted.
type QueryState struct {
	SearchText       string    `json:"search_text,omitempty"`
	SelectedCategory string    `json:"selected_category,omitempty"`
	SelectedBrand    string    `json:"selected_brand,omitempty"`
	SortOrder        SortOrder `json:"sort_order,omitempty"`
}

// QueryResult is the outcome of applying a QueryState to a snapshot.
type QueryResult struct {
	Items  []CatalogItem `json:"items"`
	Facets []string      `json:"facets"`
	Total  int           `json:"total"`
}
