package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/svetlov/catalog/internal/domain"
	"github.com/svetlov/catalog/internal/indexer"
	pkgkafka "github.com/svetlov/catalog/pkg/kafka"
)

// Consumer handles catalog domain events and applies them to the search index
// through the syncer.
type Consumer struct {
	syncer *indexer.Syncer
	logger *slog.Logger
}

// NewConsumer creates a new event consumer.
func NewConsumer(syncer *indexer.Syncer, logger *slog.Logger) *Consumer {
	return &Consumer{
		syncer: syncer,
		logger: logger,
	}
}

// Handle processes a Kafka event based on its type. Unknown event types are
// logged and skipped.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductCreated, TopicProductUpdated:
		return c.handleProductSaved(ctx, event)
	case TopicProductDeleted:
		return c.handleProductDeleted(ctx, event)
	case TopicCategoryUpdated:
		return c.handleCategoryUpdated(ctx, event)
	case TopicCategoryDeleted:
		return c.handleCategoryDeleted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (c *Consumer) handleProductSaved(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}

	product := &domain.Product{
		ID:           data.ID,
		CategoryID:   data.CategoryID,
		CategoryName: data.CategoryName,
		Name:         data.Name,
		Description:  data.Description,
		Price:        data.Price,
		Image:        data.Image,
	}

	if err := c.syncer.ProductSaved(ctx, product); err != nil {
		return fmt.Errorf("index product from %s: %w", event.EventType, err)
	}

	c.logger.InfoContext(ctx, "indexed product from event",
		slog.Int64("product_id", data.ID),
		slog.String("event_type", event.EventType),
	)

	return nil
}

func (c *Consumer) handleProductDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data ProductDeletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}

	if err := c.syncer.ProductDeleted(ctx, data.ID); err != nil {
		return fmt.Errorf("delete product from deleted event: %w", err)
	}

	c.logger.InfoContext(ctx, "removed product from index",
		slog.Int64("product_id", data.ID),
	)

	return nil
}

func (c *Consumer) handleCategoryUpdated(ctx context.Context, event *pkgkafka.Event) error {
	var data CategoryUpdatedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal category.updated data: %w", err)
	}

	// Partial failures are reported by the syncer, not bounced back to the
	// broker; retrying the whole fan-out would re-index successes too.
	report, err := c.syncer.CategoryUpdated(ctx, data.ID)
	if err != nil {
		return fmt.Errorf("re-index category from updated event: %w", err)
	}

	c.logger.InfoContext(ctx, "re-indexed category products from event",
		slog.Int64("category_id", data.ID),
		slog.Int("indexed", report.Indexed),
		slog.Int("failed", report.Failed),
	)

	return nil
}

func (c *Consumer) handleCategoryDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data CategoryDeletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal category.deleted data: %w", err)
	}

	report, err := c.syncer.CategoryDeleted(ctx, data.ProductIDs)
	if err != nil {
		return fmt.Errorf("clean up index from category.deleted event: %w", err)
	}

	c.logger.InfoContext(ctx, "removed category products from index",
		slog.Int64("category_id", data.ID),
		slog.Int("removed", report.Indexed),
		slog.Int("failed", report.Failed),
	)

	return nil
}
