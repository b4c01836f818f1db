package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/svetlov/catalog/internal/domain"
	"github.com/svetlov/catalog/internal/search"
	apperrors "github.com/svetlov/catalog/pkg/errors"
)

// Suggest size bounds.
const (
	DefaultSuggestSize = 5
	MaxSuggestSize     = 10
)

// SearchService implements the business logic for search and autocomplete.
type SearchService struct {
	engine      search.Engine
	pageSize    int
	maxPageSize int
	logger      *slog.Logger
}

// NewSearchService creates a new search service with the configured default
// and maximum page sizes.
func NewSearchService(engine search.Engine, pageSize, maxPageSize int, logger *slog.Logger) *SearchService {
	return &SearchService{
		engine:      engine,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// Search normalizes the query and executes it against the engine.
func (s *SearchService) Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = s.pageSize
	}
	if query.PageSize > s.maxPageSize {
		return nil, apperrors.InvalidInput(fmt.Sprintf("page_size must not exceed %d", s.maxPageSize))
	}
	if query.Sort == "" {
		query.Sort = domain.SortRelevance
	}
	if !domain.IsValidSort(query.Sort) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid sort option: %q", query.Sort))
	}
	if query.PriceMin != nil && query.PriceMax != nil && *query.PriceMin > *query.PriceMax {
		return nil, apperrors.InvalidInput("price_min must not exceed price_max")
	}

	result, err := s.engine.Search(ctx, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "search failed",
			slog.String("query", query.Query),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Wrap(err, "search products")
	}

	return result, nil
}

// Suggest returns autocomplete options for a name prefix. The prefix is
// required; size defaults to 5 and is capped at 10.
func (s *SearchService) Suggest(ctx context.Context, query *domain.SuggestQuery) (*domain.SuggestResult, error) {
	if query.Query == "" {
		return nil, apperrors.InvalidInput("q is required")
	}
	if query.Size <= 0 {
		query.Size = DefaultSuggestSize
	}
	if query.Size > MaxSuggestSize {
		query.Size = MaxSuggestSize
	}

	result, err := s.engine.Suggest(ctx, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "suggest failed",
			slog.String("prefix", query.Query),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Wrap(err, "suggest products")
	}

	return result, nil
}
