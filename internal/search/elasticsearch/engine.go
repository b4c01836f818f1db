package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/svetlov/catalog/internal/domain"
)

// Engine is an Elasticsearch-backed implementation of the search.Engine interface.
type Engine struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

// totalHits decodes the hits.total field of a search response. Elasticsearch 7+
// returns an object {"value": N, "relation": "eq"}; older versions return a
// bare integer. Both forms are accepted.
type totalHits struct {
	Value int
}

func (t *totalHits) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Value int `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		t.Value = obj.Value
		return nil
	}
	return json.Unmarshal(trimmed, &t.Value)
}

// esSearchResponse is the structure used to decode Elasticsearch search responses.
type esSearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total totalHits `json:"total"`
		Hits  []struct {
			Score  *float64               `json:"_score"`
			Source domain.ProductDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates a new Elasticsearch engine connected to the given URL.
// It ensures the products index exists, creating it if necessary.
// If indexName is empty, DefaultIndexName is used.
func New(esURL string, indexName string, logger *slog.Logger) (*Engine, error) {
	if indexName == "" {
		indexName = DefaultIndexName
	}

	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	e := &Engine{
		client:    client,
		indexName: indexName,
		logger:    logger,
	}

	if err := e.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to ensure index: %w", err)
	}

	return e, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// ensureIndex checks whether the products index exists and creates it if not.
func (e *Engine) ensureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists(
		[]string{e.indexName},
		e.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 200 {
		e.logger.Info("elasticsearch index already exists", "index", e.indexName)
		return nil
	}

	return e.CreateIndex(ctx)
}

// CreateIndex creates the products index with its mapping.
func (e *Engine) CreateIndex(ctx context.Context) error {
	res, err := e.client.Indices.Create(
		e.indexName,
		e.client.Indices.Create.WithBody(strings.NewReader(buildIndexMapping())),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("create index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("create index: unexpected status %s", res.Status())
	}

	e.logger.Info("elasticsearch index created", "index", e.indexName)
	return nil
}

// DeleteIndex removes the entire Elasticsearch index.
// A 404 response is treated as success (index already absent).
func (e *Engine) DeleteIndex(ctx context.Context) error {
	res, err := e.client.Indices.Delete(
		[]string{e.indexName},
		e.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch delete index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch delete index: unexpected status %s", res.Status())
	}

	e.logger.Info("elasticsearch index deleted", "index", e.indexName)
	return nil
}

// Refresh makes all indexed documents visible to search immediately.
func (e *Engine) Refresh(ctx context.Context) error {
	res, err := e.client.Indices.Refresh(
		e.client.Indices.Refresh.WithIndex(e.indexName),
		e.client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch refresh: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch refresh: unexpected status %s", res.Status())
	}
	return nil
}

// Index adds or updates a single product document in the Elasticsearch index.
func (e *Engine) Index(ctx context.Context, doc *domain.ProductDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("elasticsearch index: marshal document: %w", err)
	}

	res, err := e.client.Index(
		e.indexName,
		bytes.NewReader(data),
		e.client.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch index: unexpected status %s", res.Status())
	}

	e.logger.Debug("indexed product", "id", doc.ID, "name", doc.Name)
	return nil
}

// Delete removes a product from the Elasticsearch index by its ID.
// It does not return an error if the document does not exist (404 is ignored).
func (e *Engine) Delete(ctx context.Context, id int64) error {
	res, err := e.client.Delete(
		e.indexName,
		strconv.FormatInt(id, 10),
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch delete: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch delete: unexpected status %s", res.Status())
	}

	e.logger.Debug("deleted product from index", "id", id)
	return nil
}

// Search executes a search query against Elasticsearch and returns one page
// of results.
func (e *Engine) Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error) {
	esQuery := buildSearchQuery(query)

	data, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return nil, fmt.Errorf("elasticsearch search: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch search: unexpected status %s", res.Status())
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch search: decode response: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		hits = append(hits, projectHit(&hit.Source, hit.Score))
	}

	return domain.NewSearchResult(query, esResp.Hits.Total.Value, hits), nil
}

// projectHit converts an index document plus its score into a search hit.
func projectHit(doc *domain.ProductDocument, score *float64) domain.SearchHit {
	return domain.SearchHit{
		ID:           doc.ID,
		Name:         doc.Name,
		Description:  doc.Description,
		Price:        doc.Price,
		Category:     doc.Category.ID,
		CategoryName: doc.Category.Name,
		Image:        doc.Image,
		Score:        score,
	}
}

// buildSearchQuery constructs the Elasticsearch query DSL as a map.
func buildSearchQuery(query *domain.SearchQuery) map[string]interface{} {
	var mustClause interface{}
	if query.Query != "" {
		mustClause = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query.Query,
				"fields": []string{"name^3", "description"},
			},
		}
	} else {
		mustClause = map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	boolQuery := map[string]interface{}{
		"must": []interface{}{mustClause},
	}
	if filters := buildFilters(query); len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"from":             query.From(),
		"size":             query.PageSize,
		"track_total_hits": true,
	}

	if sortClause := buildSort(query); sortClause != nil {
		esQuery["sort"] = sortClause
	}

	return esQuery
}

// buildFilters constructs the filter clauses based on the search query.
func buildFilters(query *domain.SearchQuery) []interface{} {
	var filters []interface{}

	if len(query.CategoryIDs) > 0 {
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{
				"category_id": query.CategoryIDs,
			},
		})
	}

	if query.PriceMin != nil || query.PriceMax != nil {
		rangeFilter := map[string]interface{}{}
		if query.PriceMin != nil {
			rangeFilter["gte"] = *query.PriceMin
		}
		if query.PriceMax != nil {
			rangeFilter["lte"] = *query.PriceMax
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{
				"price": rangeFilter,
			},
		})
	}

	return filters
}

// buildSort constructs the sort clause. Relevance with a text query uses the
// default score ordering (no explicit sort); relevance without a text query
// falls back to ascending ID so pages stay deterministic.
func buildSort(query *domain.SearchQuery) []interface{} {
	switch query.Sort {
	case domain.SortPriceAsc:
		return []interface{}{
			map[string]interface{}{"price": "asc"},
		}
	case domain.SortPriceDesc:
		return []interface{}{
			map[string]interface{}{"price": "desc"},
		}
	default:
		if query.Query == "" {
			return []interface{}{
				map[string]interface{}{"id": "asc"},
			}
		}
		return nil
	}
}
