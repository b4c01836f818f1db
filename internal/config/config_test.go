package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, "elasticsearch", cfg.SearchEngine)
	assert.Equal(t, "catalog_products", cfg.ElasticsearchIndex)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SEARCH_ENGINE", "memory")
	t.Setenv("CATALOG_HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.SearchEngine)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestValidateRejectsUnknownEngine(t *testing.T) {
	t.Setenv("SEARCH_ENGINE", "solr")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown search engine")
}

func TestValidateRejectsBadPort(t *testing.T) {
	t.Setenv("CATALOG_HTTP_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
}

func TestPostgresConfigUsesEnv(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")

	cfg, err := Load()
	require.NoError(t, err)

	pg := cfg.Postgres()
	assert.Equal(t, "db.internal", pg.Host)
	assert.Equal(t, 5433, pg.Port)
	assert.Contains(t, pg.DSN(), "db.internal:5433")
}
