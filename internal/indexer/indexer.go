package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/svetlov/catalog/internal/domain"
	"github.com/svetlov/catalog/internal/repository"
	"github.com/svetlov/catalog/internal/search"
)

// rebuildBatchSize is the number of products fetched per page during a full
// index rebuild.
const rebuildBatchSize = 500

// SyncReport summarizes the outcome of a bulk synchronization run. A run is
// successful as a whole even when individual documents fail; failures are
// counted and logged.
type SyncReport struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

// Syncer keeps the search index in step with the product store. It is driven
// by the event consumer for incremental updates and called directly for full
// rebuilds.
type Syncer struct {
	engine   search.Engine
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewSyncer creates an index synchronizer.
func NewSyncer(engine search.Engine, products repository.ProductRepository, logger *slog.Logger) *Syncer {
	return &Syncer{
		engine:   engine,
		products: products,
		logger:   logger,
	}
}

// ProductSaved indexes a created or updated product. The product must carry
// its category name.
func (s *Syncer) ProductSaved(ctx context.Context, product *domain.Product) error {
	doc := domain.NewProductDocument(product)
	if err := s.engine.Index(ctx, doc); err != nil {
		documentsFailed.Inc()
		return fmt.Errorf("index product %d: %w", product.ID, err)
	}

	documentsIndexed.Inc()
	return nil
}

// ProductDeleted removes a product from the index. Deleting a product that
// was never indexed is not an error.
func (s *Syncer) ProductDeleted(ctx context.Context, id int64) error {
	if err := s.engine.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d from index: %w", id, err)
	}

	documentsDeleted.Inc()
	return nil
}

// CategoryUpdated re-indexes every product in the category so their embedded
// category name stays current. Individual failures are logged and counted but
// do not abort the fan-out.
func (s *Syncer) CategoryUpdated(ctx context.Context, categoryID int64) (*SyncReport, error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products for category %d: %w", categoryID, err)
	}

	report := &SyncReport{}
	for i := range products {
		if err := s.ProductSaved(ctx, &products[i]); err != nil {
			report.Failed++
			s.logger.ErrorContext(ctx, "failed to re-index product",
				slog.Int64("product_id", products[i].ID),
				slog.Int64("category_id", categoryID),
				slog.String("error", err.Error()),
			)
			continue
		}
		report.Indexed++
	}

	s.logger.InfoContext(ctx, "category fan-out complete",
		slog.Int64("category_id", categoryID),
		slog.Int("indexed", report.Indexed),
		slog.Int("failed", report.Failed),
	)

	return report, nil
}

// CategoryDeleted removes the given product documents from the index after
// their category was deleted and the rows cascaded away.
func (s *Syncer) CategoryDeleted(ctx context.Context, productIDs []int64) (*SyncReport, error) {
	report := &SyncReport{}
	for _, id := range productIDs {
		if err := s.ProductDeleted(ctx, id); err != nil {
			report.Failed++
			s.logger.ErrorContext(ctx, "failed to remove product from index",
				slog.Int64("product_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		report.Indexed++
	}

	return report, nil
}

// Rebuild recreates the index from scratch: the old index is dropped (a
// missing index is fine), a fresh one is created with the current mapping,
// and every product is streamed in and indexed. Per-document failures are
// counted, not fatal.
func (s *Syncer) Rebuild(ctx context.Context) (*SyncReport, error) {
	if err := s.engine.DeleteIndex(ctx); err != nil {
		return nil, fmt.Errorf("drop index: %w", err)
	}

	if err := s.engine.CreateIndex(ctx); err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	report := &SyncReport{}
	afterID := int64(0)

	for {
		batch, err := s.products.ListForIndexing(ctx, afterID, rebuildBatchSize)
		if err != nil {
			return nil, fmt.Errorf("list products after id %d: %w", afterID, err)
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			if err := s.ProductSaved(ctx, &batch[i]); err != nil {
				report.Failed++
				s.logger.ErrorContext(ctx, "failed to index product during rebuild",
					slog.Int64("product_id", batch[i].ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			report.Indexed++
		}

		afterID = batch[len(batch)-1].ID
	}

	if err := s.engine.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "index refresh after rebuild failed", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "index rebuild complete",
		slog.Int("indexed", report.Indexed),
		slog.Int("failed", report.Failed),
	)

	return report, nil
}
