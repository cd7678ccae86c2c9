// Package screens describes the catalog screens the backend serves. Each
// screen is one Profile over the shared query engine.
package screens

import (
	"errors"
	"fmt"
	"path"
	"sort"

	"catalog-backend/internal/model"
	"catalog-backend/internal/query"
)

// ErrUnknownScreen is returned by Registry.Get for names it does not hold.
var ErrUnknownScreen = errors.New("unknown screen")

// Profile is the per-screen configuration: where the screen's data lives in
// the realtime database and how its catalog is searched.
type Profile struct {
	Name           string        `mapstructure:"name" json:"name"`
	FeedPath       string        `mapstructure:"feed_path" json:"feed_path"`
	CategoriesPath string        `mapstructure:"categories_path" json:"categories_path,omitempty"`
	BannersPath    string        `mapstructure:"banners_path" json:"banners_path,omitempty"`
	AdminPath      string        `mapstructure:"admin_path" json:"admin_path,omitempty"`
	SearchFields   []query.Field `mapstructure:"search_fields" json:"search_fields"`
	SkipKeys       []string      `mapstructure:"skip_keys" json:"skip_keys,omitempty"`
	Sortable       bool          `mapstructure:"sortable" json:"sortable"`
	LeadKind       string        `mapstructure:"lead_kind" json:"lead_kind,omitempty"`
}

// QueryConfig returns the engine configuration for the profile.
func (p Profile) QueryConfig() query.Config {
	return query.Config{SearchFields: p.SearchFields}
}

// Paths lists every feed path the profile subscribes to.
func (p Profile) Paths() []string {
	out := []string{p.FeedPath}
	for _, s := range []string{p.CategoriesPath, p.BannersPath, p.AdminPath} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func adminPath(root string) string {
	return path.Join(root, "settings", "adminWhatsapp")
}

// Defaults returns the built-in screen profiles.
func Defaults() []Profile {
	return []Profile{
		{
			Name:         "retail",
			FeedPath:     "products",
			SearchFields: []query.Field{query.FieldName, query.FieldCategory},
			Sortable:     true,
		},
		{
			Name:           "manufacturer",
			FeedPath:       "manufacturers/products",
			CategoriesPath: "manufacturers/categories",
			BannersPath:    "manufacturers/banners",
			AdminPath:      adminPath("manufacturers"),
			SearchFields:   []query.Field{query.FieldName, query.FieldCategory},
			Sortable:       true,
			LeadKind:       model.LeadManufacturer,
		},
		{
			Name:           "service",
			FeedPath:       "services/providers",
			CategoriesPath: "services/categories",
			AdminPath:      adminPath("services"),
			SearchFields:   []query.Field{query.FieldName, query.FieldCategory},
			Sortable:       true,
			LeadKind:       model.LeadService,
		},
		{
			Name:           "preowned",
			FeedPath:       "preowned/products",
			CategoriesPath: "preowned/categories",
			BannersPath:    "preowned/banners",
			AdminPath:      adminPath("preowned"),
			SearchFields:   []query.Field{query.FieldName, query.FieldCategory, query.FieldDescription},
			Sortable:       true,
			LeadKind:       model.LeadPreOwned,
		},
		{
			Name:         "events",
			FeedPath:     "events",
			AdminPath:    adminPath("events"),
			SearchFields: []query.Field{query.FieldName, query.FieldTitle},
			SkipKeys:     []string{"settings"},
			LeadKind:     model.LeadEvent,
		},
	}
}

// Registry holds profiles by name.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry builds a registry, rejecting unnamed profiles, profiles without
// a feed path and duplicates.
func NewRegistry(profiles []Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		if p.Name == "" {
			return nil, errors.New("screens: profile without name")
		}
		if p.FeedPath == "" {
			return nil, fmt.Errorf("screens: profile %q has no feed path", p.Name)
		}
		if _, dup := r.profiles[p.Name]; dup {
			return nil, fmt.Errorf("screens: duplicate profile %q", p.Name)
		}
		r.profiles[p.Name] = p
	}
	return r, nil
}

// Get returns the named profile.
func (r *Registry) Get(name string) (Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownScreen, name)
	}
	return p, nil
}

// All returns the profiles sorted by name.
func (r *Registry) All() []Profile {
	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Merge overlays override onto the profile with the same name, or appends it
// as a new profile. Empty override fields keep the existing values.
func Merge(base []Profile, overrides ...Profile) []Profile {
	out := make([]Profile, len(base))
	copy(out, base)
	for _, o := range overrides {
		i := indexOf(out, o.Name)
		if i < 0 {
			out = append(out, o)
			continue
		}
		p := &out[i]
		if o.FeedPath != "" {
			p.FeedPath = o.FeedPath
		}
		if o.CategoriesPath != "" {
			p.CategoriesPath = o.CategoriesPath
		}
		if o.BannersPath != "" {
			p.BannersPath = o.BannersPath
		}
		if o.AdminPath != "" {
			p.AdminPath = o.AdminPath
		}
		if len(o.SearchFields) > 0 {
			p.SearchFields = o.SearchFields
		}
		if len(o.SkipKeys) > 0 {
			p.SkipKeys = o.SkipKeys
		}
		if o.LeadKind != "" {
			p.LeadKind = o.LeadKind
		}
		p.Sortable = p.Sortable || o.Sortable
	}
	return out
}

func indexOf(profiles []Profile, name string) int {
	for i := range profiles {
		if profiles[i].Name == name {
			return i
		}
	}
	return -1
}
