// Command reindex rebuilds the product search index from the database.
// It drops the index, recreates it with the current mapping and streams
// every product back in. Intended for recovery and mapping migrations.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/svetlov/catalog/internal/config"
	"github.com/svetlov/catalog/internal/indexer"
	"github.com/svetlov/catalog/internal/repository/postgres"
	"github.com/svetlov/catalog/internal/search/elasticsearch"
	"github.com/svetlov/catalog/pkg/database"
	"github.com/svetlov/catalog/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	l := logger.New("catalog-reindex", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, l)
	if err != nil {
		l.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	engine, err := elasticsearch.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, l)
	if err != nil {
		l.Error("failed to connect to elasticsearch", slog.String("error", err.Error()))
		os.Exit(1)
	}

	products := postgres.NewProductRepository(pool)
	syncer := indexer.NewSyncer(engine, products, l)

	start := time.Now()
	report, err := syncer.Rebuild(ctx)
	if err != nil {
		l.Error("rebuild failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Per-document failures do not fail the run; only index-level errors do.
	l.Info("rebuild complete",
		slog.Int("indexed", report.Indexed),
		slog.Int("failed", report.Failed),
		slog.Duration("took", time.Since(start)),
	)
	if report.Failed > 0 {
		l.Warn("some documents failed to index", slog.Int("failed", report.Failed))
	}
}
