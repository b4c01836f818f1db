package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/svetlov/catalog/internal/domain"
	"github.com/svetlov/catalog/internal/repository"
	apperrors "github.com/svetlov/catalog/pkg/errors"
)

// CategoryEvents publishes category domain events.
type CategoryEvents interface {
	PublishCategoryUpdated(ctx context.Context, category *domain.Category) error
	PublishCategoryDeleted(ctx context.Context, id int64, productIDs []int64) error
}

// CategoryService implements the business logic for category operations.
type CategoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	events     CategoryEvents
	logger     *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	events CategoryEvents,
	logger *slog.Logger,
) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		events:     events,
		logger:     logger,
	}
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// UpdateCategoryInput holds the parameters for updating a category. Nil
// fields are left unchanged.
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}

	category := &domain.Category{
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.Int64("category_id", category.ID),
		slog.String("name", category.Name),
	)

	return category, nil
}

// GetCategory retrieves a category by its ID.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory applies partial changes to a category. A category.updated
// event fans out to re-index the category's products; publish failures are
// logged but do not fail the update.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, input *UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("category name must not be empty")
		}
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Image != nil {
		category.Image = *input.Image
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if err := s.events.PublishCategoryUpdated(ctx, category); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.updated event",
			slog.Int64("category_id", category.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "category updated",
		slog.Int64("category_id", category.ID),
	)

	return category, nil
}

// DeleteCategory removes a category and its products. The product IDs are
// collected before the cascade delete and carried on the category.deleted
// event so the index can be cleaned up.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	productIDs, err := s.products.ListIDsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("list products for category delete: %w", err)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if err := s.events.PublishCategoryDeleted(ctx, id, productIDs); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.deleted event",
			slog.Int64("category_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "category deleted",
		slog.Int64("category_id", id),
		slog.Int("cascaded_products", len(productIDs)),
	)

	return nil
}
