// internal/config/config.go

// Package config reads terminal and catalog service settings from the
// environment, after loading an optional .env file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Env string

	DisplayAddr string
	CatalogAddr string

	DatabaseURL       string
	CatalogServiceURL string
	FixturesDir       string

	Kafka Kafka

	OTLPEndpoint string

	LockPIN        string
	RequestTimeout time.Duration
}

type Kafka struct {
	Brokers []string
	Topic   string
}

func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// ProductsFixture is the products.yaml override, or "" when none is set.
func (c *Config) ProductsFixture() string { return c.fixture("products.yaml") }

// CustomersFixture is the customers.yaml override, or "" when none is set.
func (c *Config) CustomersFixture() string { return c.fixture("customers.yaml") }

func (c *Config) fixture(name string) string {
	if c.FixturesDir == "" {
		return ""
	}
	return filepath.Join(c.FixturesDir, name)
}

// LoadDotEnv loads .env into the environment when present.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads the configuration. Malformed values fall back to their default
// and are logged.
func Load(log *zap.Logger) *Config {
	return &Config{
		Env:               getEnv("ENV", "production"),
		DisplayAddr:       getEnv("DISPLAY_ADDR", ""),
		CatalogAddr:       getEnv("CATALOG_ADDR", ":8081"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		CatalogServiceURL: strings.TrimRight(getEnv("CATALOG_SERVICE_URL", ""), "/"),
		FixturesDir:       getEnv("FIXTURES_DIR", ""),
		Kafka: Kafka{
			Brokers: splitAndTrim(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "pos.checkout"),
		},
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LockPIN:        getEnv("LOCK_PIN", "0000"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 3*time.Second, log),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, log *zap.Logger) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn("invalid duration, using default",
			zap.String("key", key),
			zap.String("value", raw),
			zap.Duration("default", fallback),
		)
		return fallback
	}
	return d
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
