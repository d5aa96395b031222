package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Reporting API.
	APIBaseURL    string
	APIToken      string
	APIUsername   string
	APIPassword   string
	APITimeout    time.Duration
	APIRetryCount int

	PollInterval       time.Duration
	TrendCacheSize     int
	StrictStatusFilter bool
	RequireRole        bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional snapshot publishing.
	KafkaEnabled        bool
	KafkaBrokers        []string
	KafkaDashboardTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parsePositiveDuration("API_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}

	retryCount, err := strconv.Atoi(sharedcfg.EnvOrDefault("API_RETRY_COUNT", "2"))
	if err != nil || retryCount < 0 {
		return nil, errors.New("invalid API_RETRY_COUNT: must be a non-negative integer")
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("TREND_CACHE_SIZE", "256"))
	if err != nil || cacheSize <= 0 {
		return nil, errors.New("invalid TREND_CACHE_SIZE: must be a positive integer")
	}

	strict, err := parseBool("STRICT_STATUS_FILTER", false)
	if err != nil {
		return nil, err
	}
	requireRole, err := parseBool("REQUIRE_ROLE", false)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", len(brokers) > 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:    sharedcfg.EnvOrDefault("API_BASE_URL", "http://127.0.0.1:8000/api/"),
		APIToken:      os.Getenv("API_TOKEN"),
		APIUsername:   os.Getenv("API_USERNAME"),
		APIPassword:   os.Getenv("API_PASSWORD"),
		APITimeout:    apiTimeout,
		APIRetryCount: retryCount,

		PollInterval:       pollInterval,
		TrendCacheSize:     cacheSize,
		StrictStatusFilter: strict,
		RequireRole:        requireRole,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:        kafkaEnabled,
		KafkaBrokers:        brokers,
		KafkaDashboardTopic: sharedcfg.EnvOrDefault("KAFKA_DASHBOARD_TOPIC", "hfrat-dashboard-snapshots"),
	}

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid API_BASE_URL: must be an absolute URL")
	}
	if !strings.HasSuffix(cfg.APIBaseURL, "/") {
		cfg.APIBaseURL += "/"
	}
	if (cfg.APIUsername == "") != (cfg.APIPassword == "") {
		return nil, errors.New("API_USERNAME and API_PASSWORD must be set together")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaDashboardTopic == "" {
		return nil, errors.New("KAFKA_DASHBOARD_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(name, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + name + ": must be a positive duration")
	}
	return d, nil
}

func parseBool(name string, def bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New("invalid " + name + ": must be true or false")
	}
	return b, nil
}
