package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	Port        string

	CatalogServiceURL string
	OrdersServiceURL  string
	NotifyServiceURL  string

	KafkaBrokers []string
	OTLPEndpoint string

	SimulatedLatency time.Duration
	LatencyJitter    time.Duration

	SeedFile string
}

// Option sets a service specific default that the environment may override.
type Option func(*Config)

// WithSimulatedLatency sets the delay used when SIMULATED_LATENCY is unset.
func WithSimulatedLatency(d time.Duration) Option {
	return func(c *Config) {
		c.SimulatedLatency = d
	}
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists. defaultPort is used when PORT
// is unset.
func Load(serviceName, defaultPort string, opts ...Option) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		ServiceName:       serviceName,
		Port:              getEnv("PORT", defaultPort),
		CatalogServiceURL: os.Getenv("CATALOG_SERVICE_URL"),
		OrdersServiceURL:  os.Getenv("ORDERS_SERVICE_URL"),
		NotifyServiceURL:  os.Getenv("NOTIFY_SERVICE_URL"),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		SeedFile:          os.Getenv("SEED_FILE"),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	var err error
	if cfg.SimulatedLatency, err = getDuration("SIMULATED_LATENCY", cfg.SimulatedLatency); err != nil {
		return nil, err
	}
	if cfg.LatencyJitter, err = getDuration("SIMULATED_LATENCY_JITTER", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
