// Package ingest converts raw realtime-database snapshots into catalog values.
//
// A snapshot is whatever the feed pushed for one path: nil, an object of
// objects, or an array (the database renders integer-keyed children as one).
// Every push fully replaces the previous state, so nothing here merges.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"catalog-backend/internal/model"
)

// child is one keyed value of a snapshot collection.
type child struct {
	key   string
	value any
}

// DecodeJSON parses a JSON snapshot. An empty payload is treated as null.
func DecodeJSON(data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ingest: decode json: %w", err)
	}
	return raw, nil
}

// DecodeYAML parses a YAML snapshot into the same shapes DecodeJSON produces.
func DecodeYAML(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ingest: decode yaml: %w", err)
	}
	return normalize(raw), nil
}

// normalize rewrites yaml-specific container types into JSON-shaped ones.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	default:
		return v
	}
}

// Items converts a snapshot into catalog items. Keys listed in skip are
// dropped before conversion (the events collection shares its root with a
// settings node). Children that are not objects are ignored.
func Items(raw any, skip ...string) []model.CatalogItem {
	kids := children(raw, skip)
	items := make([]model.CatalogItem, 0, len(kids))
	for _, c := range kids {
		rec, ok := c.value.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, item(c.key, rec))
	}
	return items
}

func item(key string, rec map[string]any) model.CatalogItem {
	it := model.CatalogItem{ID: key}
	if id, ok := text(rec["id"]); ok && id != "" {
		it.ID = id
	}
	it.Name, it.HasName = text(rec["name"])
	it.Category, it.HasCategory = text(rec["category"])
	it.Description, it.HasDescription = text(rec["description"])
	it.Title, it.HasTitle = text(rec["title"])
	it.Brand, _ = text(rec["brand"])
	it.Price, _ = text(rec["price"])
	it.Phone, _ = text(rec["phone"])
	it.Image, _ = text(rec["image"])
	it.Date, _ = text(rec["date"])
	it.Location, _ = text(rec["location"])
	it.Rating = number(rec["rating"])
	it.Timestamp = number(rec["timestamp"])
	return it
}

// Categories converts a categories snapshot.
func Categories(raw any) []model.Category {
	kids := children(raw, nil)
	out := make([]model.Category, 0, len(kids))
	for _, c := range kids {
		rec, ok := c.value.(map[string]any)
		if !ok {
			continue
		}
		cat := model.Category{ID: c.key}
		if id, ok := text(rec["id"]); ok && id != "" {
			cat.ID = id
		}
		cat.Title, _ = text(rec["title"])
		cat.Icon, _ = text(rec["icon"])
		cat.Color, _ = text(rec["color"])
		cat.Group, _ = text(rec["group"])
		out = append(out, cat)
	}
	return out
}

// Banners converts a banners snapshot. Values are either bare URLs or
// objects carrying url or image.
func Banners(raw any) []model.Banner {
	kids := children(raw, nil)
	out := make([]model.Banner, 0, len(kids))
	for _, c := range kids {
		var u string
		switch v := c.value.(type) {
		case string:
			u = v
		case map[string]any:
			if s, ok := text(v["url"]); ok && s != "" {
				u = s
			} else {
				u, _ = text(v["image"])
			}
		}
		if u == "" {
			continue
		}
		out = append(out, model.Banner{ID: c.key, URL: u})
	}
	return out
}

// String converts a scalar snapshot such as the admin WhatsApp number.
func String(raw any) string {
	s, _ := text(raw)
	return s
}

// children lists the keyed values of a collection in the order the realtime
// database client hands them out: integer keys ascending, then the rest
// lexicographically. Arrays use their positional index as key.
func children(raw any, skip []string) []child {
	switch t := raw.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			if skipped(k, skip) {
				continue
			}
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
		out := make([]child, 0, len(keys))
		for _, k := range keys {
			out = append(out, child{key: k, value: t[k]})
		}
		return out
	case []any:
		out := make([]child, 0, len(t))
		for i, v := range t {
			k := strconv.Itoa(i)
			if v == nil || skipped(k, skip) {
				continue
			}
			out = append(out, child{key: k, value: v})
		}
		return out
	default:
		return nil
	}
}

func skipped(key string, skip []string) bool {
	for _, s := range skip {
		if s == key {
			return true
		}
	}
	return false
}

func keyLess(a, b string) bool {
	ai, aok := arrayIndex(a)
	bi, bok := arrayIndex(b)
	switch {
	case aok && bok:
		return ai < bi
	case aok:
		return true
	case bok:
		return false
	default:
		return a < b
	}
}

// arrayIndex reports whether k is a canonical non-negative integer key.
func arrayIndex(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(k, 10, 32)
	return n, err == nil
}

// text renders scalar field values as strings. Objects, arrays and null count
// as absent.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
