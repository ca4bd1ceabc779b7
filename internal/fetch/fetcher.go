// Package fetch caches per-(station, sensor, window) sensor series around
// the upstream AWDB client. Raw and cleaned series live in separate caches;
// cleaned entries additionally key on the cleaning-policy version so a
// policy change never reuses stale cleaned data.
package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/soilsense/scan-analyzer/internal/observability"
)

// SeriesSource retrieves raw observations from the upstream provider.
type SeriesSource interface {
	FetchSeries(ctx context.Context, stationID string, kind domain.SensorKind, window domain.Window) (domain.Series, error)
}

// Fetcher is a caching decorator over a SeriesSource. Cache entries are
// session-scoped: invalidated only by key change or an explicit Clear, never
// by time. Two concurrent requests for the same missing key may both hit the
// upstream; they store equal results, so the race only costs a wasted fetch.
type Fetcher struct {
	source  SeriesSource
	raw     *lruCache[domain.Series]
	cleaned *lruCache[domain.CleanedSeries]
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Fetcher whose raw and cleaned caches each hold up to
// maxEntries series.
func New(source SeriesSource, maxEntries int, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		source:  source,
		raw:     newLRUCache[domain.Series](maxEntries),
		cleaned: newLRUCache[domain.CleanedSeries](maxEntries),
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch returns the raw series for the key, consulting the cache first.
// An empty upstream result is cached like any other: absence of data for a
// sensor/station combination is expected, not an error.
func (f *Fetcher) Fetch(ctx context.Context, stationID string, kind domain.SensorKind, window domain.Window) (domain.Series, error) {
	key := seriesKey(stationID, kind, window)
	if s, ok := f.raw.get(key); ok {
		f.metrics.SeriesCacheLookups.WithLabelValues("raw", "hit").Inc()
		return s, nil
	}
	f.metrics.SeriesCacheLookups.WithLabelValues("raw", "miss").Inc()

	s, err := f.source.FetchSeries(ctx, stationID, kind, window)
	if err != nil {
		return domain.Series{}, err
	}

	f.raw.put(key, s)
	f.logger.Debug("cached raw series", "station", stationID, "sensor", kind, "points", len(s.Points))
	return s, nil
}

// FetchCleaned returns the cleaned series for the key, cleaning a raw series
// (cached or freshly fetched) on miss.
func (f *Fetcher) FetchCleaned(ctx context.Context, stationID string, kind domain.SensorKind, window domain.Window) (domain.CleanedSeries, error) {
	key := seriesKey(stationID, kind, window) + "|" + domain.CleaningPolicyVersion
	if s, ok := f.cleaned.get(key); ok {
		f.metrics.SeriesCacheLookups.WithLabelValues("cleaned", "hit").Inc()
		return s, nil
	}
	f.metrics.SeriesCacheLookups.WithLabelValues("cleaned", "miss").Inc()

	raw, err := f.Fetch(ctx, stationID, kind, window)
	if err != nil {
		return domain.CleanedSeries{}, err
	}

	cleaned := domain.Clean(raw)
	if dropped := domain.OutliersRemoved(raw, cleaned); dropped > 0 {
		f.metrics.OutliersRemoved.Add(float64(dropped))
	}

	f.cleaned.put(key, cleaned)
	return cleaned, nil
}

// Clear drops every cached series.
func (f *Fetcher) Clear() {
	f.raw.clear()
	f.cleaned.clear()
}

func seriesKey(stationID string, kind domain.SensorKind, window domain.Window) string {
	return fmt.Sprintf("%s|%s|%s|%s", stationID, kind, window.StartDate(), window.EndDate())
}
