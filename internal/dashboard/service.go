package dashboard

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/backoffice/internal/catalog"
	"github.com/odyssey-erp/backoffice/internal/observability"
	"github.com/odyssey-erp/backoffice/internal/rbac"
	"github.com/odyssey-erp/backoffice/internal/records"
)

// Service composes the catalog, the records provider and the access gate into
// the views served to the renderer.
type Service struct {
	catalog  *catalog.Catalog
	provider DataProvider
	cache    *Cache
	metrics  *observability.Metrics
	group    singleflight.Group
}

// NewService wires the dashboard dependencies. cache and metrics may be nil.
func NewService(cat *catalog.Catalog, provider DataProvider, cache *Cache, metrics *observability.Metrics) *Service {
	return &Service{catalog: cat, provider: provider, cache: cache, metrics: metrics}
}

// Menu resolves a landing page for role. Every card is returned; locked
// cards carry Enabled=false.
func (s *Service) Menu(ctx context.Context, section string, role rbac.Role) (MenuView, error) {
	sec, err := s.catalog.Section(section)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownSection) {
			return MenuView{}, ErrNotFound
		}
		return MenuView{}, err
	}

	items := make([]MenuItem, 0, len(sec.Cards))
	locked := 0
	for _, card := range sec.Cards {
		item := toMenuItem(card, role)
		if !item.Enabled {
			locked++
		}
		items = append(items, item)
	}
	s.metrics.ObserveLocked(sec.ID, string(role), locked)

	titles := make(map[catalog.CategoryID]string, len(sec.Categories))
	for _, c := range sec.Categories {
		titles[c.ID] = c.Title
	}
	buckets := catalog.GroupBy(items, func(i MenuItem) catalog.CategoryID { return catalog.CategoryID(i.Category) }, sec.CategoryIDs())
	groups := make([]MenuGroup, 0, len(buckets))
	for _, b := range buckets {
		groups = append(groups, MenuGroup{
			Category:   string(b.Category),
			Title:      titles[b.Category],
			Items:      b.Items,
			Count:      b.Count,
			Percentage: b.Percentage,
		})
	}

	return MenuView{Section: sec.ID, Title: sec.Title, Role: role, Items: items, Groups: groups}, nil
}

// Report filters the records behind reportID. The access check runs before
// any data is loaded.
func (s *Service) Report(ctx context.Context, reportID string, criteria records.Criteria, role rbac.Role) (ReportView, error) {
	card, err := s.catalog.Card(reportID)
	if err != nil || !card.IsReport() {
		s.metrics.ObserveReport(reportID, observability.OutcomeNotFound, 0)
		return ReportView{}, ErrNotFound
	}
	if !rbac.CanAccess(card.RequiredRoles, role) {
		s.metrics.ObserveReport(reportID, observability.OutcomeForbidden, 0)
		return ReportView{}, ErrForbidden
	}

	view, err := s.cachedReport(ctx, card, criteria)
	if err != nil {
		s.metrics.ObserveReport(reportID, observability.OutcomeError, 0)
		return ReportView{}, err
	}
	s.metrics.ObserveReport(reportID, observability.OutcomeOK, view.Matched)
	return view, nil
}

// Invalidate drops every memoized report view.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Warm precomputes the unfiltered view of every report and returns how many
// were built.
func (s *Service) Warm(ctx context.Context) (int, error) {
	warmed := 0
	for _, card := range s.catalog.Reports() {
		if _, err := s.cachedReport(ctx, card, records.Criteria{}); err != nil {
			return warmed, fmt.Errorf("dashboard: warm %s: %w", card.ID, err)
		}
		warmed++
	}
	return warmed, nil
}

func (s *Service) cachedReport(ctx context.Context, card catalog.MenuCard, criteria records.Criteria) (ReportView, error) {
	loader := func(ctx context.Context) (any, error) {
		return s.buildReport(ctx, card, criteria)
	}
	if s.cache == nil {
		return s.buildReport(ctx, card, criteria)
	}

	key, err := s.cache.BuildKey(ctx, keyReport(card.ID, criteria))
	if err != nil {
		return ReportView{}, err
	}
	val, err := s.singleflightBuild(ctx, key, func(ctx context.Context) (any, error) {
		var view ReportView
		if err := s.cache.FetchJSON(ctx, key, &view, loader); err != nil {
			return nil, err
		}
		return view, nil
	})
	if err != nil {
		return ReportView{}, err
	}
	// Equivalent criteria share a key; echo back what this caller asked for.
	view := val.(ReportView)
	view.Criteria = criteria
	return view, nil
}

func (s *Service) buildReport(ctx context.Context, card catalog.MenuCard, criteria records.Criteria) (ReportView, error) {
	all, err := s.provider.Records(ctx, card.Source)
	if err != nil {
		return ReportView{}, fmt.Errorf("dashboard: load %s: %w", card.Source, err)
	}
	rows := records.Filter(all, criteria)

	categories := records.Categories(all)
	ids := make([]catalog.CategoryID, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, catalog.CategoryID(c))
	}
	buckets := catalog.GroupBy(rows, func(r records.Record) catalog.CategoryID { return catalog.CategoryID(r.Category) }, ids)
	breakdown := make([]Share, 0, len(buckets))
	for _, b := range buckets {
		breakdown = append(breakdown, Share{Category: string(b.Category), Count: b.Count, Percentage: b.Percentage})
	}

	options := make(map[records.Field][]string)
	for _, f := range records.Fields() {
		if values := records.Options(all, f); len(values) > 0 {
			options[f] = values
		}
	}

	return ReportView{
		ReportID:  card.ID,
		Title:     card.Title,
		Criteria:  criteria,
		Rows:      rows,
		Total:     len(all),
		Matched:   len(rows),
		Breakdown: breakdown,
		Options:   options,
	}, nil
}
