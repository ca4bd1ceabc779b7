// Package pipeline runs the single-shot query flow: rank nearest stations,
// then fetch, clean, and summarize every (station, sensor) series. Failures
// are scoped per series; one bad station or sensor never aborts the batch.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/soilsense/scan-analyzer/internal/observability"
)

// NearestFinder resolves the k stations closest to an origin.
type NearestFinder interface {
	Nearest(ctx context.Context, origin domain.Coordinate, k int) ([]domain.RankedStation, error)
}

// CleanedFetcher produces cleaned series per (station, sensor, window) key.
type CleanedFetcher interface {
	FetchCleaned(ctx context.Context, stationID string, kind domain.SensorKind, window domain.Window) (domain.CleanedSeries, error)
}

// SeriesKey identifies one series within a query's result set.
type SeriesKey struct {
	StationID string
	Kind      domain.SensorKind
}

// SeriesResult carries either a cleaned series with its summary or the
// per-series error. An empty series with a nil Summary is a valid outcome
// ("no data"), distinct from Err being set.
type SeriesResult struct {
	Series  domain.CleanedSeries
	Summary *domain.SummaryPoint
	Err     error
}

// Report is the immutable result bundle of one query run.
type Report struct {
	Origin   domain.Coordinate
	Window   domain.Window
	Stations []domain.RankedStation
	Results  map[SeriesKey]SeriesResult
}

// Result returns the series result for a station/sensor pair.
func (r *Report) Result(stationID string, kind domain.SensorKind) (SeriesResult, bool) {
	res, ok := r.Results[SeriesKey{StationID: stationID, Kind: kind}]
	return res, ok
}

// Runner executes queries with bounded per-series concurrency.
type Runner struct {
	catalog NearestFinder
	fetcher CleanedFetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	workers int
}

// New creates a Runner. workers bounds how many series are fetched
// concurrently; values below 1 are treated as 1.
func New(catalog NearestFinder, fetcher CleanedFetcher, logger *slog.Logger, metrics *observability.Metrics, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		catalog: catalog,
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
		workers: workers,
	}
}

// RunQuery performs one full nearest→fetch→clean→summarize pass and returns
// the result bundle. The origin must come from domain.NewCoordinate, so bad
// coordinates are rejected before any fetch. A catalog failure is fatal to
// the query; per-series failures are recorded in the report instead.
func (r *Runner) RunQuery(ctx context.Context, origin domain.Coordinate, k int, window domain.Window) (*Report, error) {
	start := time.Now()

	ranked, err := r.catalog.Nearest(ctx, origin, k)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Origin:   origin,
		Window:   window,
		Stations: ranked,
		Results:  make(map[SeriesKey]SeriesResult, len(ranked)*len(domain.AllSensorKinds())),
	}

	jobs := make(chan SeriesKey)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for range r.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				res := r.fetchOne(ctx, key, window)
				mu.Lock()
				report.Results[key] = res
				mu.Unlock()
			}
		}()
	}

	for _, rs := range ranked {
		for _, kind := range domain.AllSensorKinds() {
			jobs <- SeriesKey{StationID: rs.Station.ID, Kind: kind}
		}
	}
	close(jobs)
	wg.Wait()

	r.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	r.logger.Info("query complete",
		"stations", len(ranked),
		"series", len(report.Results),
		"elapsed", time.Since(start),
	)
	return report, nil
}

func (r *Runner) fetchOne(ctx context.Context, key SeriesKey, window domain.Window) SeriesResult {
	cleaned, err := r.fetcher.FetchCleaned(ctx, key.StationID, key.Kind, window)
	if err != nil {
		r.logger.Warn("series fetch failed, continuing with remaining series",
			"station", key.StationID,
			"sensor", key.Kind,
			"error", err,
		)
		return SeriesResult{Err: err}
	}
	return SeriesResult{Series: cleaned, Summary: domain.Summarize(cleaned)}
}
