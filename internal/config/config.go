package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	AWDBBaseURL string
	AWDBTimeout time.Duration

	NearestK     int
	HistoryYears int
	CacheSize    int
	QueryWorkers int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka summary publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	awdbTimeout, err := durationEnv("AWDB_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	nearestK, err := intEnv("NEAREST_K", 5, 1, 10)
	if err != nil {
		return nil, err
	}
	historyYears, err := intEnv("HISTORY_YEARS", 5, 1, 30)
	if err != nil {
		return nil, err
	}
	cacheSize, err := intEnv("CACHE_SIZE", 256, 1, 100000)
	if err != nil {
		return nil, err
	}
	queryWorkers, err := intEnv("QUERY_WORKERS", 4, 1, 64)
	if err != nil {
		return nil, err
	}

	brokers := splitBrokers(envOrDefault("KAFKA_BROKERS", ""))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		AWDBBaseURL: envOrDefault("AWDB_BASE_URL", "https://wcc.sc.egov.usda.gov/awdbRestApi/services/v1"),
		AWDBTimeout: awdbTimeout,

		NearestK:     nearestK,
		HistoryYears: historyYears,
		CacheSize:    cacheSize,
		QueryWorkers: queryWorkers,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:   brokers,
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "scan-site-summaries"),
		KafkaEnabled:   kafkaEnabled,
	}

	if cfg.AWDBBaseURL == "" {
		return nil, fmt.Errorf("AWDB_BASE_URL must not be empty")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, fmt.Errorf("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func intEnv(key string, fallback, min, max int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("invalid %s: %q (want %d-%d)", key, s, min, max)
	}
	return n, nil
}

func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
