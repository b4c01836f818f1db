package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/svetlov/catalog/internal/domain"
	pkgkafka "github.com/svetlov/catalog/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated  = "catalog.product.created"
	TopicProductUpdated  = "catalog.product.updated"
	TopicProductDeleted  = "catalog.product.deleted"
	TopicCategoryUpdated = "catalog.category.updated"
	TopicCategoryDeleted = "catalog.category.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeProduct  = "product"
	AggregateTypeCategory = "category"
)

// SourceCatalog identifies events originating from the catalog service.
const SourceCatalog = "catalog-service"

// ProductEventData is the payload for product.created and product.updated
// events. It carries the category name so consumers can build index documents
// without a lookup.
type ProductEventData struct {
	ID           int64   `json:"id"`
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Image        string  `json:"image,omitempty"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID int64 `json:"id"`
}

// CategoryUpdatedData is the payload for a category.updated event.
type CategoryUpdatedData struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryDeletedData is the payload for a category.deleted event. ProductIDs
// lists the products that cascaded away with the category, collected before
// the delete, so consumers can clean up their documents.
type CategoryDeletedData struct {
	ID         int64   `json:"id"`
	ProductIDs []int64 `json:"product_ids"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func productData(product *domain.Product) ProductEventData {
	return ProductEventData{
		ID:           product.ID,
		CategoryID:   product.CategoryID,
		CategoryName: product.CategoryName,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Image:        product.Image,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	return nil
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, strconv.FormatInt(product.ID, 10), AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, strconv.FormatInt(product.ID, 10), AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, TopicProductDeleted, strconv.FormatInt(id, 10), AggregateTypeProduct, ProductDeletedData{ID: id})
}

// PublishCategoryUpdated publishes a category.updated event, triggering a
// re-index of the category's products.
func (p *Producer) PublishCategoryUpdated(ctx context.Context, category *domain.Category) error {
	data := CategoryUpdatedData{ID: category.ID, Name: category.Name}
	return p.publish(ctx, TopicCategoryUpdated, strconv.FormatInt(category.ID, 10), AggregateTypeCategory, data)
}

// PublishCategoryDeleted publishes a category.deleted event with the IDs of
// the products that were removed with it.
func (p *Producer) PublishCategoryDeleted(ctx context.Context, id int64, productIDs []int64) error {
	data := CategoryDeletedData{ID: id, ProductIDs: productIDs}
	return p.publish(ctx, TopicCategoryDeleted, strconv.FormatInt(id, 10), AggregateTypeCategory, data)
}
