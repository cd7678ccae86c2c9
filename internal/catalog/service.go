// Package catalog keeps the latest snapshot of every screen in memory and
// answers queries against it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"catalog-backend/internal/banner"
	"catalog-backend/internal/feed"
	"catalog-backend/internal/ingest"
	"catalog-backend/internal/metrics"
	"catalog-backend/internal/model"
	"catalog-backend/internal/query"
	"catalog-backend/internal/screens"
)

// ErrItemNotFound is returned by Item for ids absent from the snapshot.
var ErrItemNotFound = errors.New("item not found")

type screenState struct {
	profile    screens.Profile
	items      feed.Value[[]model.CatalogItem]
	categories feed.Value[[]model.Category]
	admin      feed.Value[string]
	banners    *banner.Rotator
}

// Status summarizes one screen.
type Status struct {
	screens.Profile
	Items     int       `json:"items"`
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// BannerState is a screen's carousel.
type BannerState struct {
	Banners []model.Banner `json:"banners"`
	Current int            `json:"current"`
}

// Service holds per-screen state fed by a Subscriber.
type Service struct {
	registry *screens.Registry
	sub      feed.Subscriber
	logger   *zap.Logger
	metrics  *metrics.Metrics
	screens  map[string]*screenState
}

// NewService creates a service for every profile in reg. m may be nil.
func NewService(reg *screens.Registry, sub feed.Subscriber, bannerInterval time.Duration, logger *zap.Logger, m *metrics.Metrics) *Service {
	s := &Service{
		registry: reg,
		sub:      sub,
		logger:   logger,
		metrics:  m,
		screens:  make(map[string]*screenState),
	}
	for _, p := range reg.All() {
		s.screens[p.Name] = &screenState{profile: p, banners: banner.NewRotator(bannerInterval)}
	}
	return s
}

// Start subscribes every screen path. The returned stop function
// unsubscribes them all.
func (s *Service) Start(ctx context.Context) (stop func(), err error) {
	var unsubs []func()
	stop = func() {
		for _, u := range unsubs {
			u()
		}
	}
	for _, p := range s.registry.All() {
		hs := s.handlers(s.screens[p.Name])
		for _, path := range p.Paths() {
			u, err := s.sub.Subscribe(ctx, path, hs[path])
			if err != nil {
				stop()
				return nil, fmt.Errorf("catalog: subscribe %s: %w", path, err)
			}
			unsubs = append(unsubs, u)
		}
	}
	return stop, nil
}

// Run subscribes every screen and rotates banners until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	stop, err := s.Start(ctx)
	if err != nil {
		return err
	}
	defer stop()

	// golang.org/x/sync/errgroup: one goroutine per carousel, joined on shutdown.
	g, ctx := errgroup.WithContext(ctx)
	for _, st := range s.screens {
		if st.profile.BannersPath == "" {
			continue
		}
		st := st
		g.Go(func() error {
			st.banners.Run(ctx)
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})
	return g.Wait()
}

func (s *Service) handlers(st *screenState) map[string]feed.Handler {
	p := st.profile
	hs := map[string]feed.Handler{
		p.FeedPath: func(raw any) {
			items := ingest.Items(raw, p.SkipKeys...)
			st.items.Replace(items)
			s.metrics.Snapshot(p.FeedPath)
			s.metrics.Items(p.Name, len(items))
			s.logger.Debug("catalog: items replaced", zap.String("screen", p.Name), zap.Int("count", len(items)))
		},
	}
	if p.CategoriesPath != "" {
		hs[p.CategoriesPath] = func(raw any) {
			st.categories.Replace(ingest.Categories(raw))
			s.metrics.Snapshot(p.CategoriesPath)
		}
	}
	if p.BannersPath != "" {
		hs[p.BannersPath] = func(raw any) {
			st.banners.SetBanners(ingest.Banners(raw))
			s.metrics.Snapshot(p.BannersPath)
		}
	}
	if p.AdminPath != "" {
		hs[p.AdminPath] = func(raw any) {
			st.admin.Replace(ingest.String(raw))
			s.metrics.Snapshot(p.AdminPath)
		}
	}
	return hs
}

func (s *Service) screen(name string) (*screenState, error) {
	st, ok := s.screens[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", screens.ErrUnknownScreen, name)
	}
	return st, nil
}

// Profile returns the named screen profile.
func (s *Service) Profile(name string) (screens.Profile, error) {
	return s.registry.Get(name)
}

// Statuses lists every screen with its snapshot size, sorted by name.
func (s *Service) Statuses() []Status {
	all := s.registry.All()
	out := make([]Status, 0, len(all))
	for _, p := range all {
		st := s.screens[p.Name]
		out = append(out, Status{
			Profile:   p,
			Items:     len(st.items.Load()),
			Version:   st.items.Version(),
			UpdatedAt: st.items.UpdatedAt(),
		})
	}
	return out
}

// Query runs state against the screen's latest snapshot and pages the
// result. Total counts matches before paging. Screens without sorting ignore
// the sort order.
func (s *Service) Query(name string, state model.QueryState, offset, limit int) (model.QueryResult, error) {
	st, err := s.screen(name)
	if err != nil {
		return model.QueryResult{}, err
	}
	if !st.profile.Sortable {
		state.SortOrder = model.SortNone
	}
	res := query.Apply(st.items.Load(), state, st.profile.QueryConfig())
	res.Items = query.Page(res.Items, offset, limit)
	s.metrics.Query(name, "items")
	return res, nil
}

// Suggest returns keyword suggestions for a partially typed query.
func (s *Service) Suggest(name, q string, limit int) ([]string, error) {
	st, err := s.screen(name)
	if err != nil {
		return nil, err
	}
	s.metrics.Query(name, "suggestions")
	return query.Suggest(st.items.Load(), q, limit), nil
}

// Categories returns the screen's categories grouped for display.
func (s *Service) Categories(name string) ([]model.CategoryGroup, error) {
	st, err := s.screen(name)
	if err != nil {
		return nil, err
	}
	return query.GroupCategories(st.categories.Load()), nil
}

// Banners returns the screen's carousel.
func (s *Service) Banners(name string) (BannerState, error) {
	st, err := s.screen(name)
	if err != nil {
		return BannerState{}, err
	}
	cur, _, _ := st.banners.Current()
	b := st.banners.Banners()
	if b == nil {
		b = []model.Banner{}
	}
	return BannerState{Banners: b, Current: cur}, nil
}

// Item returns the item with id from the screen's snapshot.
func (s *Service) Item(name, id string) (model.CatalogItem, error) {
	st, err := s.screen(name)
	if err != nil {
		return model.CatalogItem{}, err
	}
	for _, it := range st.items.Load() {
		if it.ID == id {
			return it, nil
		}
	}
	return model.CatalogItem{}, fmt.Errorf("%w: %s/%s", ErrItemNotFound, name, id)
}

// AdminNumber returns the screen's admin WhatsApp number, empty when unset.
func (s *Service) AdminNumber(name string) (string, error) {
	st, err := s.screen(name)
	if err != nil {
		return "", err
	}
	return st.admin.Load(), nil
}
