package repository

import (
	"context"

	"github.com/svetlov/catalog/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	CategoryID *int64
	Page       int
	PerPage    int
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create inserts a new category into the store and fills in its generated ID.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.Category, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]domain.Category, error)

	// Update modifies an existing category in the store.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category and cascades to its products.
	Delete(ctx context.Context, id int64) error
}

// ProductRepository defines the interface for product persistence operations.
// Reads join the category table so products carry their category name.
type ProductRepository interface {
	// Create inserts a new product into the store and fills in its generated ID.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// ListByCategory returns all products in the given category.
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)

	// ListIDsByCategory returns the IDs of all products in the given category.
	ListIDsByCategory(ctx context.Context, categoryID int64) ([]int64, error)

	// ListForIndexing returns up to limit products with ID greater than afterID,
	// ordered by ID. Callers page through the full table by passing the last
	// seen ID back in.
	ListForIndexing(ctx context.Context, afterID int64, limit int) ([]domain.Product, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id int64) error
}
