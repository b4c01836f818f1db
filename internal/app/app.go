package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svetlov/catalog/internal/config"
	"github.com/svetlov/catalog/internal/event"
	httphandler "github.com/svetlov/catalog/internal/handler/http"
	"github.com/svetlov/catalog/internal/indexer"
	"github.com/svetlov/catalog/internal/repository/postgres"
	"github.com/svetlov/catalog/internal/search"
	"github.com/svetlov/catalog/internal/search/elasticsearch"
	"github.com/svetlov/catalog/internal/search/memory"
	"github.com/svetlov/catalog/internal/service"
	"github.com/svetlov/catalog/pkg/database"
	"github.com/svetlov/catalog/pkg/health"
	pkgkafka "github.com/svetlov/catalog/pkg/kafka"
)

const indexerGroupID = "catalog-indexer"

// App owns every component of the catalog service and their lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool      *pgxpool.Pool
	producer  *pkgkafka.Producer
	consumers []*pkgkafka.Consumer
	server    *http.Server
}

// New wires the full service: database, search engine, event pipeline,
// services and HTTP transport.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	database.RegisterPoolMetrics(pool, "catalog")

	categories := postgres.NewCategoryRepository(pool)
	products := postgres.NewProductRepository(pool)

	engine, err := newSearchEngine(cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	events := event.NewProducer(producer, logger)

	syncer := indexer.NewSyncer(engine, products, logger)
	eventConsumer := event.NewConsumer(syncer, logger)

	topics := []string{
		event.TopicProductCreated,
		event.TopicProductUpdated,
		event.TopicProductDeleted,
		event.TopicCategoryUpdated,
		event.TopicCategoryDeleted,
	}
	consumers := make([]*pkgkafka.Consumer, 0, len(topics))
	for _, topic := range topics {
		consumers = append(consumers, pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: indexerGroupID,
			Topic:   topic,
		}, eventConsumer.Handle, logger))
	}

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("search", engine.Ping)
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	router := httphandler.NewRouter(httphandler.RouterConfig{
		Categories: httphandler.NewCategoryHandler(
			service.NewCategoryService(categories, products, events, logger), logger),
		Products: httphandler.NewProductHandler(
			service.NewProductService(products, events, logger),
			cfg.PageSize, cfg.MaxPageSize, logger),
		Search: httphandler.NewSearchHandler(
			service.NewSearchService(engine, cfg.PageSize, cfg.MaxPageSize, logger),
			cfg.MaxPageSize, logger),
		Health: healthHandler,
		Logger: logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		producer:  producer,
		consumers: consumers,
		server:    server,
	}, nil
}

// newSearchEngine selects the configured search backend.
func newSearchEngine(cfg *config.Config, logger *slog.Logger) (search.Engine, error) {
	switch cfg.SearchEngine {
	case "memory":
		logger.Warn("running with in-memory search engine, documents are not persisted")
		return memory.New(), nil
	default:
		engine, err := elasticsearch.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("connect elasticsearch: %w", err)
		}
		return engine, nil
	}
}

// Run starts the consumers and the HTTP server and blocks until the context
// is cancelled, then shuts everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	for _, c := range a.consumers {
		consumer := c
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("consumer stopped", slog.String("error", err.Error()))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", slog.Int("port", a.cfg.HTTPPort))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown failed", slog.String("error", err.Error()))
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("consumer close failed", slog.String("error", err.Error()))
		}
	}
	if err := a.producer.Close(); err != nil {
		a.logger.Error("producer close failed", slog.String("error", err.Error()))
	}
	a.pool.Close()

	a.logger.Info("shutdown complete")
	return nil
}
