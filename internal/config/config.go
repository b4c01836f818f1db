package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/svetlov/catalog/pkg/config"
	"github.com/svetlov/catalog/pkg/database"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CATALOG_HTTP_PORT" envDefault:"8080"`

	// Pagination
	PageSize    int `env:"PAGE_SIZE" envDefault:"20"`
	MaxPageSize int `env:"MAX_PAGE_SIZE" envDefault:"100"`

	// Search engine selection. "elasticsearch" is the live engine;
	// "memory" runs an in-process engine for local development and tests.
	SearchEngine string `env:"SEARCH_ENGINE" envDefault:"elasticsearch"`

	// Elasticsearch
	ElasticsearchURL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"catalog_products"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// PostgreSQL
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"catalog"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"catalog_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"catalog"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("invalid page size: %d", c.PageSize)
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("max page size %d is smaller than page size %d", c.MaxPageSize, c.PageSize)
	}
	if c.SearchEngine != "elasticsearch" && c.SearchEngine != "memory" {
		return fmt.Errorf("unknown search engine: %q", c.SearchEngine)
	}
	return nil
}

// Postgres returns the connection pool configuration for the configured database.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPassword,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSLMode,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}
