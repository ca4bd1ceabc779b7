// Package awdb talks to the USDA AWDB REST API, the upstream source for the
// SCAN station catalog and daily sensor observations. Payloads are treated
// as untrusted: malformed rows are rejected one by one rather than failing
// the whole response.
package awdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/soilsense/scan-analyzer/internal/observability"
)

// scanNetwork is the AWDB network code for SCAN installations.
const scanNetwork = "SCAN"

// Client fetches station metadata and daily series from the AWDB API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an AWDB client with a bounded per-request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchStations retrieves the full station catalog and returns the SCAN
// subset. Entries without usable coordinates are skipped. Transport failures
// and malformed payloads surface as a DataSourceError; a partial catalog is
// never returned.
func (c *Client) FetchStations(ctx context.Context) ([]domain.Station, error) {
	u := c.baseURL + "/stations?" + url.Values{"format": {"json"}}.Encode()

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, &domain.DataSourceError{Op: "catalog", Err: err}
	}

	var records []stationRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &domain.DataSourceError{Op: "catalog", Err: fmt.Errorf("decode catalog: %w", err)}
	}

	stations := make([]domain.Station, 0, len(records))
	for _, r := range records {
		if r.NetworkCode != scanNetwork {
			continue
		}
		coord, err := domain.NewCoordinate(r.Latitude, r.Longitude)
		if err != nil || (r.Latitude == 0 && r.Longitude == 0) {
			c.logger.Debug("skipping station without usable coordinates",
				"station", r.StationTriplet)
			continue
		}
		stations = append(stations, domain.Station{
			ID:         r.StationTriplet,
			Name:       r.Name,
			Coordinate: coord,
			Elevation:  r.Elevation,
			Network:    r.NetworkCode,
		})
	}

	c.logger.Info("fetched station catalog", "scan_stations", len(stations), "total", len(records))
	return stations, nil
}

// FetchSeries retrieves daily observations for one (station, sensor) pair
// over the window. Rows with missing or non-numeric values or out-of-window
// dates are rejected individually. Zero observations is not an error; the
// returned series is simply empty.
func (c *Client) FetchSeries(ctx context.Context, stationID string, kind domain.SensorKind, window domain.Window) (domain.Series, error) {
	series := domain.Series{StationID: stationID, Kind: kind, Window: window}

	if !kind.Valid() {
		return series, &domain.ValidationError{Field: "sensor", Reason: fmt.Sprintf("unknown kind %q", kind)}
	}

	params := url.Values{
		"stationTriplets":      {stationID},
		"elements":             {kind.ElementCode()},
		"duration":             {"DAILY"},
		"beginDate":            {window.StartDate()},
		"endDate":              {window.EndDate()},
		"periodRef":            {"END"},
		"centralTendencyType":  {"NONE"},
		"returnFlags":          {"false"},
		"returnOriginalValues": {"false"},
		"returnSuspectData":    {"false"},
		"format":               {"json"},
	}
	u := c.baseURL + "/data?" + params.Encode()

	body, err := c.get(ctx, u)
	if err != nil {
		c.metrics.SeriesFetches.WithLabelValues(string(kind), "error").Inc()
		return series, &domain.DataSourceError{Op: "series", Station: stationID, Sensor: kind, Err: err}
	}

	var payload []dataRecord
	if err := json.Unmarshal(body, &payload); err != nil {
		c.metrics.SeriesFetches.WithLabelValues(string(kind), "error").Inc()
		return series, &domain.DataSourceError{
			Op: "series", Station: stationID, Sensor: kind,
			Err: fmt.Errorf("decode data payload: %w", err),
		}
	}

	rejected := 0
	for _, rec := range payload {
		for _, d := range rec.Data {
			for _, v := range d.Values {
				obs, ok := parseObservation(v, window)
				if !ok {
					rejected++
					continue
				}
				series.Points = append(series.Points, obs)
			}
		}
	}
	if rejected > 0 {
		c.metrics.ObservationsRejected.Add(float64(rejected))
		c.logger.Debug("rejected malformed observations",
			"station", stationID, "sensor", kind, "rejected", rejected)
	}

	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})

	outcome := "success"
	if len(series.Points) == 0 {
		outcome = "empty"
	}
	c.metrics.SeriesFetches.WithLabelValues(string(kind), outcome).Inc()

	return series, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("awdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("awdb API error: status %d: %s", resp.StatusCode, snippet)
	}

	return io.ReadAll(resp.Body)
}

// parseObservation validates a single raw value row. The value field is
// coerced from whatever JSON type the provider sent; missing dates,
// unparsable values, and out-of-window dates all reject the row.
func parseObservation(v valueRecord, window domain.Window) (domain.Observation, bool) {
	date, err := time.Parse("2006-01-02", v.Date)
	if err != nil {
		return domain.Observation{}, false
	}
	if !window.Contains(date) {
		return domain.Observation{}, false
	}
	value, ok := coerceFloat(v.Value)
	if !ok {
		return domain.Observation{}, false
	}
	return domain.Observation{Date: date, Value: value}, true
}

// coerceFloat accepts the numeric encodings seen in AWDB payloads: JSON
// numbers and numeric strings. Anything else (null, empty, text) fails.
func coerceFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// AWDB API response types.

type stationRecord struct {
	StationTriplet string  `json:"stationTriplet"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Elevation      float64 `json:"elevation"`
	NetworkCode    string  `json:"networkCode"`
}

type dataRecord struct {
	StationTriplet string      `json:"stationTriplet"`
	Data           []dataBlock `json:"data"`
}

type dataBlock struct {
	Values []valueRecord `json:"values"`
}

type valueRecord struct {
	Date  string `json:"date"`
	Value any    `json:"value"`
}
