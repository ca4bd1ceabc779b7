package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// station-discovery and series pipeline.
type Metrics struct {
	CatalogFetches *prometheus.CounterVec // labels: outcome={success,error}
	CatalogSize    prometheus.Gauge

	SeriesFetches        *prometheus.CounterVec   // labels: sensor, outcome={success,error,empty}
	SeriesCacheLookups   *prometheus.CounterVec   // labels: store={raw,cleaned}, result={hit,miss}
	ObservationsRejected prometheus.Counter
	OutliersRemoved      prometheus.Counter

	UpstreamDuration prometheus.Histogram
	QueryDuration    prometheus.Histogram

	SummariesPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CatalogFetches,
		m.CatalogSize,
		m.SeriesFetches,
		m.SeriesCacheLookups,
		m.ObservationsRejected,
		m.OutliersRemoved,
		m.UpstreamDuration,
		m.QueryDuration,
		m.SummariesPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CatalogFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scan_analyzer",
			Name:      "catalog_fetches_total",
			Help:      "Station catalog fetches from the AWDB provider by outcome.",
		}, []string{"outcome"}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scan_analyzer",
			Name:      "catalog_stations",
			Help:      "Number of SCAN stations in the cached catalog.",
		}),
		SeriesFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scan_analyzer",
			Name:      "series_fetches_total",
			Help:      "Upstream series fetches by sensor and outcome.",
		}, []string{"sensor", "outcome"}),
		SeriesCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scan_analyzer",
			Name:      "series_cache_lookups_total",
			Help:      "Series cache lookups by store and result.",
		}, []string{"store", "result"}),
		ObservationsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scan_analyzer",
			Name:      "observations_rejected_total",
			Help:      "Raw observations rejected during payload validation.",
		}),
		OutliersRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scan_analyzer",
			Name:      "outliers_removed_total",
			Help:      "Observations dropped by IQR fencing.",
		}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scan_analyzer",
			Name:      "upstream_request_duration_seconds",
			Help:      "AWDB request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scan_analyzer",
			Name:      "query_duration_seconds",
			Help:      "Duration of a full nearest/fetch/clean/summarize query.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scan_analyzer",
			Name:      "summaries_published_total",
			Help:      "Summary records published to the Kafka sink topic.",
		}),
	}
}
