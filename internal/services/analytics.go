// Package services implements the filtering and aggregation pipeline over
// the record store. Filtering and every derived view are pure functions of
// the record set and criteria; they are recomputed on each request and never
// persisted. An empty view is a valid terminal state, not an error.
package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"supermart-dashboard/internal/geo"
	"supermart-dashboard/internal/models"
	"supermart-dashboard/internal/store"
)

type Analytics struct {
	store  *store.Store
	logger *slog.Logger
}

func NewAnalytics(store *store.Store, logger *slog.Logger) *Analytics {
	return &Analytics{
		store:  store,
		logger: logger,
	}
}

// Filter applies the criteria as a conjunction: day within the inclusive
// range, category and region membership, and the optional product search.
// An empty category or region set selects nothing; the interactive layer is
// responsible for defaulting to "all" when nothing was excluded.
func Filter(records []models.SalesRecord, c models.FilterCriteria) []models.SalesRecord {
	if len(c.Categories) == 0 || len(c.Regions) == 0 {
		return nil
	}

	categories := toSet(c.Categories)
	regions := toSet(c.Regions)
	search := strings.ToLower(strings.TrimSpace(c.Search))

	var view []models.SalesRecord
	for _, r := range records {
		if r.Day.Before(c.Start) || r.Day.After(c.End) {
			continue
		}
		if _, ok := categories[r.Category]; !ok {
			continue
		}
		if _, ok := regions[r.City]; !ok {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Product), search) {
			continue
		}
		view = append(view, r)
	}
	return view
}

// Summarize computes the view totals: summed total amount, record count and
// distinct product count. Total amounts are summed as given, never
// recomputed from quantity and unit price.
func Summarize(view []models.SalesRecord) models.Summary {
	total := decimal.Zero
	products := make(map[string]struct{}, 16)
	for _, r := range view {
		total = total.Add(r.TotalAmount)
		products[r.Product] = struct{}{}
	}
	return models.Summary{
		TotalSales:   total,
		OrderCount:   len(view),
		ProductCount: len(products),
	}
}

// DailySeries groups the view by day and sums total amounts, ascending by
// day. Days with no matching records are absent, not zero-valued.
func DailySeries(view []models.SalesRecord) []models.DailyPoint {
	groups := make(map[time.Time]decimal.Decimal, 32)
	for _, r := range view {
		groups[r.Day] = groups[r.Day].Add(r.TotalAmount)
	}

	series := make([]models.DailyPoint, 0, len(groups))
	for day, sales := range groups {
		series = append(series, models.DailyPoint{Day: day, Sales: sales})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Day.Before(series[j].Day)
	})
	return series
}

// CategoryBreakdown sums total amounts per category, largest first.
func CategoryBreakdown(view []models.SalesRecord) []models.CategorySales {
	groups := make(map[string]decimal.Decimal, 8)
	for _, r := range view {
		groups[r.Category] = groups[r.Category].Add(r.TotalAmount)
	}

	breakdown := make([]models.CategorySales, 0, len(groups))
	for category, sales := range groups {
		breakdown = append(breakdown, models.CategorySales{Category: category, Sales: sales})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Sales.Equal(breakdown[j].Sales) {
			return breakdown[i].Sales.GreaterThan(breakdown[j].Sales)
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

// CityBreakdown sums total amounts per city and attaches coordinates from
// the fixed city table, largest first. Cities missing from the table are
// dropped here only; they still count toward totals and other breakdowns.
func CityBreakdown(view []models.SalesRecord) []models.CitySales {
	groups := make(map[string]decimal.Decimal, 16)
	for _, r := range view {
		groups[r.City] = groups[r.City].Add(r.TotalAmount)
	}

	breakdown := make([]models.CitySales, 0, len(groups))
	for city, sales := range groups {
		point, ok := geo.Lookup(city)
		if !ok {
			continue
		}
		breakdown = append(breakdown, models.CitySales{
			City:  city,
			Sales: sales,
			Lat:   point.Lat,
			Lon:   point.Lon,
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Sales.Equal(breakdown[j].Sales) {
			return breakdown[i].Sales.GreaterThan(breakdown[j].Sales)
		}
		return breakdown[i].City < breakdown[j].City
	})
	return breakdown
}

// LatestOrders returns the view ordered descending by timestamp, truncated
// to limit. The input view is not reordered.
func LatestOrders(view []models.SalesRecord, limit int) []models.SalesRecord {
	orders := make([]models.SalesRecord, len(view))
	copy(orders, view)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// DashboardData bundles all derived views for one criteria evaluation.
type DashboardData struct {
	Summary    models.Summary         `json:"summary"`
	Trend      models.TrendMetric     `json:"trend"`
	Daily      []models.DailyPoint    `json:"daily"`
	Categories []models.CategorySales `json:"categories"`
	Cities     []models.CitySales     `json:"cities"`
}

// Meta describes the loaded record set for the interactive layer: the date
// bounds to clamp pickers to and the selectable category/region options.
type Meta struct {
	MinDate     time.Time `json:"min_date"`
	MaxDate     time.Time `json:"max_date"`
	Categories  []string  `json:"categories"`
	Regions     []string  `json:"regions"`
	RecordCount int       `json:"record_count"`
}

func (a *Analytics) view(ctx context.Context, c models.FilterCriteria) ([]models.SalesRecord, error) {
	if err := a.store.EnsureFresh(ctx); err != nil {
		return nil, err
	}
	return Filter(a.store.Records(), c), nil
}

// Summary returns the view totals together with the trend metric.
func (a *Analytics) Summary(ctx context.Context, c models.FilterCriteria) (models.Summary, models.TrendMetric, error) {
	view, err := a.view(ctx, c)
	if err != nil {
		return models.Summary{}, models.TrendMetric{}, err
	}
	return Summarize(view), ComputeTrend(DailySeries(view)), nil
}

func (a *Analytics) DailySales(ctx context.Context, c models.FilterCriteria) ([]models.DailyPoint, error) {
	view, err := a.view(ctx, c)
	if err != nil {
		return nil, err
	}
	return DailySeries(view), nil
}

func (a *Analytics) CategorySales(ctx context.Context, c models.FilterCriteria) ([]models.CategorySales, error) {
	view, err := a.view(ctx, c)
	if err != nil {
		return nil, err
	}
	return CategoryBreakdown(view), nil
}

func (a *Analytics) CitySales(ctx context.Context, c models.FilterCriteria) ([]models.CitySales, error) {
	view, err := a.view(ctx, c)
	if err != nil {
		return nil, err
	}
	return CityBreakdown(view), nil
}

func (a *Analytics) Orders(ctx context.Context, c models.FilterCriteria, limit int) ([]models.SalesRecord, error) {
	view, err := a.view(ctx, c)
	if err != nil {
		return nil, err
	}
	return LatestOrders(view, limit), nil
}

// Dashboard evaluates all derived views for one criteria in a single pass
// over the store. The four aggregations are independent, so they run
// concurrently over the shared read-only view.
func (a *Analytics) Dashboard(ctx context.Context, c models.FilterCriteria) (*DashboardData, error) {
	view, err := a.view(ctx, c)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		data.Summary = Summarize(view)
		return nil
	})
	g.Go(func() error {
		data.Daily = DailySeries(view)
		data.Trend = ComputeTrend(data.Daily)
		return nil
	})
	g.Go(func() error {
		data.Categories = CategoryBreakdown(view)
		return nil
	})
	g.Go(func() error {
		data.Cities = CityBreakdown(view)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (a *Analytics) Meta(ctx context.Context) (Meta, error) {
	if err := a.store.EnsureFresh(ctx); err != nil {
		return Meta{}, err
	}

	meta := Meta{
		Categories:  a.store.Categories(),
		Regions:     a.store.Regions(),
		RecordCount: len(a.store.Records()),
	}
	if minDay, maxDay, ok := a.store.Bounds(); ok {
		meta.MinDate = minDay
		meta.MaxDate = maxDay
	}
	return meta, nil
}

func (a *Analytics) Stats() map[string]any {
	return a.store.Stats()
}
