package search

import (
	"context"

	"github.com/svetlov/catalog/internal/domain"
)

// Engine defines the interface for indexing and searching products.
// Implementations may use Elasticsearch, in-memory storage, or other backends.
type Engine interface {
	// Index adds or updates a single product document in the search index.
	Index(ctx context.Context, doc *domain.ProductDocument) error

	// Delete removes a product from the search index by its ID. Deleting a
	// document that is not indexed is not an error.
	Delete(ctx context.Context, id int64) error

	// Search executes a search query and returns one page of results.
	Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error)

	// Suggest returns autocomplete options for a name prefix.
	Suggest(ctx context.Context, query *domain.SuggestQuery) (*domain.SuggestResult, error)

	// CreateIndex creates the backing index with its mapping.
	CreateIndex(ctx context.Context) error

	// DeleteIndex removes the backing index. A missing index is not an error.
	DeleteIndex(ctx context.Context) error

	// Refresh makes all indexed documents visible to search immediately.
	Refresh(ctx context.Context) error

	// Ping checks whether the engine backend is reachable.
	Ping(ctx context.Context) error
}
