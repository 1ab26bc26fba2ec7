// Package store owns the currently loaded record set. A reload replaces the
// whole set atomically under a single-writer lock, so readers always see a
// complete record set, never a half-built one.
package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"supermart-dashboard/internal/dataset"
	"supermart-dashboard/internal/models"
)

// Store holds the most recently normalized record set, sorted ascending by
// date. It reloads when the source staleness token changes or when the
// reload TTL has elapsed, whichever a caller detects first via EnsureFresh.
type Store struct {
	loader *dataset.Loader
	ttl    time.Duration
	logger *slog.Logger

	// reloadMu serializes staleness checks and reloads so concurrent
	// requests cannot trigger duplicate loads of the same source state.
	reloadMu sync.Mutex

	mu         sync.RWMutex
	records    []models.SalesRecord
	categories []string
	regions    []string
	minDay     time.Time
	maxDay     time.Time
	loaded     bool
	loadedAt   time.Time
	token      string
}

func New(loader *dataset.Loader, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		loader: loader,
		ttl:    ttl,
		logger: logger,
	}
}

// IsStale reports whether the held record set must be rebuilt: nothing is
// loaded yet, the source token differs from the one the current data was
// built from, or the TTL since the last load has elapsed.
func (s *Store) IsStale(token string, now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return true
	}
	if token != s.token {
		return true
	}
	return now.Sub(s.loadedAt) >= s.ttl
}

// EnsureFresh checks the source staleness token and reloads if needed. A
// missing source surfaces as SOURCE_UNAVAILABLE; a failed reload leaves any
// previously held record set untouched.
func (s *Store) EnsureFresh(ctx context.Context) error {
	if s.loader == nil {
		// Manually seeded store (SetRecords); nothing to reload from.
		return nil
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	token, err := s.loader.ModToken()
	if err != nil {
		return err
	}

	if !s.IsStale(token, time.Now()) {
		return nil
	}

	return s.reload(ctx, token)
}

func (s *Store) reload(ctx context.Context, token string) error {
	records, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error("record store reload failed", "error", err)
		return err
	}

	s.swap(records, token)
	s.logger.Info("record store reloaded", "records", len(records), "token", token)
	return nil
}

// SetRecords installs a record set directly, bypassing the loader. The
// records are sorted by date the same way a real load sorts them.
func (s *Store) SetRecords(records []models.SalesRecord) {
	sorted := make([]models.SalesRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	s.swap(sorted, "manual")
}

func (s *Store) swap(records []models.SalesRecord, token string) {
	categories := distinct(records, func(r models.SalesRecord) string { return r.Category })
	regions := distinct(records, func(r models.SalesRecord) string { return r.City })

	var minDay, maxDay time.Time
	if len(records) > 0 {
		minDay = records[0].Day
		maxDay = records[len(records)-1].Day
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.categories = categories
	s.regions = regions
	s.minDay = minDay
	s.maxDay = maxDay
	s.loaded = true
	s.loadedAt = time.Now()
	s.token = token
}

// Records returns the full sorted record set. Callers must treat it as
// read-only for the lifetime of the load cycle.
func (s *Store) Records() []models.SalesRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Bounds returns the minimum and maximum day present. ok is false when the
// store holds no records.
func (s *Store) Bounds() (minDay, maxDay time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.minDay, s.maxDay, len(s.records) > 0
}

// Categories returns the distinct category labels present, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// Regions returns the distinct region labels present, sorted.
func (s *Store) Regions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regions
}

func (s *Store) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"record_count": len(s.records),
		"categories":   len(s.categories),
		"regions":      len(s.regions),
		"loaded_at":    s.loadedAt,
		"source_token": s.token,
	}
}

func distinct(records []models.SalesRecord, key func(models.SalesRecord) string) []string {
	seen := make(map[string]struct{}, 16)
	var values []string
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}
