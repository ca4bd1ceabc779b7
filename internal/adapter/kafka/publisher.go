// Package kafka publishes per-station summary records to a sink topic.
// Publishing is an optional export path, feature-flagged through config;
// the core pipeline never depends on it.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/soilsense/scan-analyzer/internal/config"
	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/soilsense/scan-analyzer/internal/observability"
	"github.com/soilsense/scan-analyzer/internal/pipeline"
)

// summaryRecord is the wire form of one published summary. Values follow the
// export conventions: miles for distance, Celsius for temperature.
type summaryRecord struct {
	StationID     string    `json:"station_id"`
	StationName   string    `json:"station_name"`
	DistanceMiles float64   `json:"distance_miles"`
	Sensor        string    `json:"sensor"`
	Extremum      string    `json:"extremum"`
	Value         float64   `json:"value"`
	Date          time.Time `json:"date"`
	WindowStart   string    `json:"window_start"`
	WindowEnd     string    `json:"window_end"`
}

// Publisher produces summary records to the configured Kafka sink topic.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// PublishSummaries serializes every summary in the report and publishes them
// in a single WriteMessages call. Series with no summary (no data or a
// failed fetch) are skipped; an empty report publishes nothing.
func (p *Publisher) PublishSummaries(ctx context.Context, report *pipeline.Report) error {
	var msgs []kafkago.Message
	for _, rs := range report.Stations {
		for _, kind := range domain.AllSensorKinds() {
			res, ok := report.Result(rs.Station.ID, kind)
			if !ok || res.Summary == nil {
				continue
			}
			msg, err := serializeSummary(rs, *res.Summary, report.Window)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish summaries: %w", err)
	}
	p.metrics.SummariesPublished.Add(float64(len(msgs)))
	p.logger.Info("published summaries", "count", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeSummary marshals one summary into a Kafka message keyed by
// station and sensor so repeated runs for the same site compact cleanly.
func serializeSummary(rs domain.RankedStation, sp domain.SummaryPoint, window domain.Window) (kafkago.Message, error) {
	rec := summaryRecord{
		StationID:     rs.Station.ID,
		StationName:   rs.Station.Name,
		DistanceMiles: rs.DistanceMiles,
		Sensor:        string(sp.Kind),
		Extremum:      string(sp.Extremum),
		Value:         sp.Value,
		Date:          sp.Date,
		WindowStart:   window.StartDate(),
		WindowEnd:     window.EndDate(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rs.Station.ID + "/" + string(sp.Kind)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "sensor", Value: []byte(sp.Kind)},
			{Key: "extremum", Value: []byte(sp.Extremum)},
		},
	}, nil
}
