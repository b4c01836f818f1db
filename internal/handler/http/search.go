package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/svetlov/catalog/internal/domain"
	"github.com/svetlov/catalog/internal/service"
	"github.com/svetlov/catalog/pkg/httputil"
)

// SearchHandler handles HTTP requests for search and autocomplete endpoints.
type SearchHandler struct {
	service     *service.SearchService
	maxPageSize int
	logger      *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, maxPageSize int, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service:     svc,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := &domain.SearchQuery{
		Query: strings.TrimSpace(q.Get("q")),
	}

	switch sort := q.Get("sort"); sort {
	case "", domain.SortRelevance, domain.SortPriceAsc, domain.SortPriceDesc:
		query.Sort = sort
	default:
		httputil.WriteInvalidParam(w, "sort", "sort must be one of: relevance, price_asc, price_desc")
		return
	}

	if v := q.Get("category"); v != "" {
		ids, err := parseCategoryIDs(v)
		if err != nil {
			httputil.WriteInvalidParam(w, "category", err.Error())
			return
		}
		query.CategoryIDs = ids
	}

	if v := q.Get("price_min"); v != "" {
		price, ok := parsePrice(w, "price_min", v)
		if !ok {
			return
		}
		query.PriceMin = &price
	}

	if v := q.Get("price_max"); v != "" {
		price, ok := parsePrice(w, "price_max", v)
		if !ok {
			return
		}
		query.PriceMax = &price
	}

	if query.PriceMin != nil && query.PriceMax != nil && *query.PriceMin > *query.PriceMax {
		httputil.WriteInvalidParam(w, "price_min", "price_min must not exceed price_max")
		return
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			httputil.WriteInvalidParam(w, "page", "page must be a positive integer")
			return
		}
		query.Page = page
	}

	if v := q.Get("page_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > h.maxPageSize {
			httputil.WriteInvalidParam(w, "page_size",
				fmt.Sprintf("page_size must be an integer between 1 and %d", h.maxPageSize))
			return
		}
		query.PageSize = size
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Suggest handles GET /api/v1/search/suggest
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	prefix := strings.TrimSpace(q.Get("q"))
	if prefix == "" {
		httputil.WriteInvalidParam(w, "q", "q is required")
		return
	}

	query := &domain.SuggestQuery{Query: prefix}

	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > service.MaxSuggestSize {
			httputil.WriteInvalidParam(w, "size",
				fmt.Sprintf("size must be an integer between 1 and %d", service.MaxSuggestSize))
			return
		}
		query.Size = size
	}

	result, err := h.service.Suggest(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// parseCategoryIDs parses a comma-separated list of positive integer IDs.
// The whole list is rejected if any element is malformed.
func parseCategoryIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("category must be a comma-separated list of positive integers, got %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parsePrice parses a non-negative price parameter, writing a 400 that names
// the offending field on failure.
func parsePrice(w http.ResponseWriter, field, raw string) (float64, bool) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		httputil.WriteInvalidParam(w, field, field+" must be a valid number")
		return 0, false
	}
	if price < 0 {
		httputil.WriteInvalidParam(w, field, field+" must not be negative")
		return 0, false
	}
	return price, true
}
