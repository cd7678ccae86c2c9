package query

import (
	"strings"

	"catalog-backend/internal/model"
)

// OthersGroup collects categories without a group.
const OthersGroup = "Others"

// Facets returns the distinct trimmed, non-empty brands of items in
// first-seen order.
func Facets(items []model.CatalogItem) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range items {
		b := strings.TrimSpace(items[i].Brand)
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Page slices items client-side. A negative offset counts as zero and a
// limit <= 0 returns everything after offset.
func Page(items []model.CatalogItem, offset, limit int) []model.CatalogItem {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []model.CatalogItem{}
	}
	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

// GroupCategories buckets categories by group in first-seen order.
func GroupCategories(categories []model.Category) []model.CategoryGroup {
	index := make(map[string]int)
	groups := []model.CategoryGroup{}
	for _, c := range categories {
		name := c.Group
		if name == "" {
			name = OthersGroup
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, model.CategoryGroup{Name: name})
		}
		groups[i].Categories = append(groups[i].Categories, c)
	}
	return groups
}
