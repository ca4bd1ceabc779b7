// Package catalog maintains the session-scoped SCAN station list and
// answers nearest-K queries against it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/soilsense/scan-analyzer/internal/observability"
)

// StationLister fetches the full station catalog from the upstream provider.
type StationLister interface {
	FetchStations(ctx context.Context) ([]domain.Station, error)
}

// Catalog caches the station list for the lifetime of the session. The list
// is fetched at most once on success; a failed fetch is retried on the next
// call. The mutex is held across the upstream call so concurrent callers
// never trigger duplicate catalog fetches.
type Catalog struct {
	source  StationLister
	logger  *slog.Logger
	metrics *observability.Metrics

	mu       sync.Mutex
	stations []domain.Station
	loaded   bool
}

// New creates a Catalog over the given station source.
func New(source StationLister, logger *slog.Logger, metrics *observability.Metrics) *Catalog {
	return &Catalog{source: source, logger: logger, metrics: metrics}
}

// ListStations returns the cached station list, fetching it on first use.
func (c *Catalog) ListStations(ctx context.Context) ([]domain.Station, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.stations, nil
	}

	stations, err := c.source.FetchStations(ctx)
	if err != nil {
		c.metrics.CatalogFetches.WithLabelValues("error").Inc()
		return nil, err
	}

	c.metrics.CatalogFetches.WithLabelValues("success").Inc()
	c.metrics.CatalogSize.Set(float64(len(stations)))
	c.stations = stations
	c.loaded = true
	return c.stations, nil
}

// Nearest returns the k stations closest to origin, ascending by haversine
// distance with ties broken by station id. Either the full ranking succeeds
// or an error is returned; never a partial result.
func (c *Catalog) Nearest(ctx context.Context, origin domain.Coordinate, k int) ([]domain.RankedStation, error) {
	if k < 1 {
		return nil, &domain.ValidationError{Field: "k", Reason: fmt.Sprintf("%d is not >= 1", k)}
	}

	stations, err := c.ListStations(ctx)
	if err != nil {
		return nil, err
	}

	ranked := domain.RankStations(origin, stations, k)
	c.logger.Debug("ranked nearest stations", "k", k, "returned", len(ranked))
	return ranked, nil
}

// Reset drops the cached list so the next call re-fetches. Used when a
// session explicitly clears its caches.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stations = nil
	c.loaded = false
}

// CheckReadiness reports whether the catalog has been loaded at least once
// and, when it has, how many SCAN stations it holds.
func (c *Catalog) CheckReadiness(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return 0, errors.New("station catalog has not been loaded yet")
	}
	return len(c.stations), nil
}
