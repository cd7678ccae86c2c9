// Package query is the catalog query engine: filtering, ordering, keyword
// suggestions and facets over an in-memory snapshot.
//
// Every function is pure. Inputs are never mutated and the unfiltered
// snapshot is always the starting point, so results never depend on a
// previously filtered view.
package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"catalog-backend/internal/model"
)

// Field names an item field that free-text search may look at.
type Field string

const (
	FieldName        Field = "name"
	FieldCategory    Field = "category"
	FieldDescription Field = "description"
	FieldTitle       Field = "title"
)

// DefaultSearchFields is used when a Config names none.
var DefaultSearchFields = []Field{FieldName, FieldCategory}

// Config parameterizes the engine for one screen.
type Config struct {
	SearchFields []Field `mapstructure:"search_fields" json:"search_fields"`
}

func (c Config) fields() []Field {
	if len(c.SearchFields) == 0 {
		return DefaultSearchFields
	}
	return c.SearchFields
}

// lower folds s the way the screens compared strings. A Caser carries state,
// so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Filter applies a single criteria to items.
//
//   - none, an empty value, or category "All" return items as given
//   - category keeps items whose category equals value ignoring case
//   - text keeps items where value, lowercased, occurs in any searched field
//   - brand keeps items whose trimmed brand equals value exactly
//
// Items lacking a field never match on that field.
func Filter(items []model.CatalogItem, c model.FilterCriteria, fields []Field) []model.CatalogItem {
	switch c.Kind {
	case model.FilterCategory:
		if c.Value == "" || c.Value == model.AllCategories {
			return items
		}
		want := lower(c.Value)
		return keep(items, func(it *model.CatalogItem) bool {
			return it.HasCategory && lower(it.Category) == want
		})
	case model.FilterText:
		q := lower(c.Value)
		if len(fields) == 0 {
			fields = DefaultSearchFields
		}
		return keep(items, func(it *model.CatalogItem) bool {
			return matchesText(it, q, fields)
		})
	case model.FilterBrand:
		if c.Value == "" {
			return items
		}
		return keep(items, func(it *model.CatalogItem) bool {
			return strings.TrimSpace(it.Brand) == c.Value
		})
	default:
		return items
	}
}

func matchesText(it *model.CatalogItem, q string, fields []Field) bool {
	for _, f := range fields {
		v, ok := fieldValue(it, f)
		if ok && strings.Contains(lower(v), q) {
			return true
		}
	}
	return false
}

func fieldValue(it *model.CatalogItem, f Field) (string, bool) {
	switch f {
	case FieldName:
		return it.Name, it.HasName
	case FieldCategory:
		return it.Category, it.HasCategory
	case FieldDescription:
		return it.Description, it.HasDescription
	case FieldTitle:
		return it.Title, it.HasTitle
	default:
		return "", false
	}
}

func keep(items []model.CatalogItem, pred func(*model.CatalogItem) bool) []model.CatalogItem {
	out := make([]model.CatalogItem, 0, len(items))
	for i := range items {
		if pred(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// Criteria returns the text-or-category criteria a QueryState selects. Free
// text wins; the category only applies when no text was entered.
func Criteria(state model.QueryState) model.FilterCriteria {
	if state.SearchText != "" {
		return model.FilterCriteria{Kind: model.FilterText, Value: state.SearchText}
	}
	if state.SelectedCategory != "" && state.SelectedCategory != model.AllCategories {
		return model.FilterCriteria{Kind: model.FilterCategory, Value: state.SelectedCategory}
	}
	return model.FilterCriteria{Kind: model.FilterNone}
}

// Apply runs the whole query pipeline against the unfiltered snapshot:
// text/category predicate, facets over that result, brand, then ordering.
func Apply(items []model.CatalogItem, state model.QueryState, cfg Config) model.QueryResult {
	base := Filter(items, Criteria(state), cfg.fields())
	facets := Facets(base)

	result := base
	if state.SelectedBrand != "" {
		result = Filter(base, model.FilterCriteria{Kind: model.FilterBrand, Value: state.SelectedBrand}, nil)
	}
	result = Sort(result, state.SortOrder)

	return model.QueryResult{
		Items:  result,
		Facets: facets,
		Total:  len(result),
	}
}
