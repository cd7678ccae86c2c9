package query

import (
	"strings"

	"catalog-backend/internal/model"
)

// DefaultSuggestLimit caps keyword suggestions.
const DefaultSuggestLimit = 5

// Suggest returns up to limit keywords for a partially typed query.
//
// Items are scanned in feed order. Matching name tokens are emitted
// lowercased, then a matching category is emitted with its original casing.
// Deduplication ignores case. The scan stops after the item that brings the
// result to limit. A limit <= 0 means DefaultSuggestLimit.
func Suggest(items []model.CatalogItem, query string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	q := lower(query)
	if q == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	results := make([]string, 0, min(limit, DefaultSuggestLimit))

	for i := range items {
		it := &items[i]
		if it.HasName {
			name := lower(it.Name)
			if strings.Contains(name, q) {
				for _, word := range strings.Fields(name) {
					if _, dup := seen[word]; dup || !strings.Contains(word, q) {
						continue
					}
					seen[word] = struct{}{}
					results = append(results, word)
				}
			}
		}
		if it.HasCategory {
			cat := lower(it.Category)
			if _, dup := seen[cat]; !dup && strings.Contains(cat, q) {
				seen[cat] = struct{}{}
				results = append(results, it.Category)
			}
		}
		if len(results) >= limit {
			break
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
