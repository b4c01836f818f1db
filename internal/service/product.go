package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/svetlov/catalog/internal/domain"
	"github.com/svetlov/catalog/internal/repository"
	apperrors "github.com/svetlov/catalog/pkg/errors"
)

// ProductEvents publishes product domain events.
type ProductEvents interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id int64) error
}

// ProductService implements the business logic for product operations.
type ProductService struct {
	products repository.ProductRepository
	events   ProductEvents
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, events ProductEvents, logger *slog.Logger) *ProductService {
	return &ProductService{
		products: products,
		events:   events,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Image       string  `json:"image"`
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged.
type UpdateProductInput struct {
	CategoryID  *int64   `json:"category_id" validate:"omitempty,gt=0"`
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Image       *string  `json:"image"`
}

// CreateProduct creates a new product. The product.created event is published
// after the row is committed; publish failures are logged, never surfaced.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.CategoryID < 1 {
		return nil, apperrors.InvalidInput("category_id is required")
	}

	product := &domain.Product{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	// Re-read to pick up the joined category name for the event payload.
	created, err := s.products.GetByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("reload created product: %w", err)
	}

	if err := s.events.PublishProductCreated(ctx, created); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.Int64("product_id", created.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", created.ID),
		slog.String("name", created.Name),
	)

	return created, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns products matching the filter with the total count.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// UpdateProduct applies partial changes to a product and publishes a
// product.updated event.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.CategoryID != nil {
		if *input.CategoryID < 1 {
			return nil, apperrors.InvalidInput("category_id must be a positive integer")
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Image != nil {
		product.Image = *input.Image
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	// The category may have changed; re-read for the current joined name.
	updated, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload updated product: %w", err)
	}

	if err := s.events.PublishProductUpdated(ctx, updated); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.Int64("product_id", updated.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.Int64("product_id", updated.ID),
	)

	return updated, nil
}

// DeleteProduct removes a product and publishes a product.deleted event.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.events.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.Int64("product_id", id),
	)

	return nil
}
