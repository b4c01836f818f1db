package elasticsearch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svetlov/catalog/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func TestBuildSearchQuery_TextQuery(t *testing.T) {
	q := &domain.SearchQuery{Query: "espresso", Sort: domain.SortRelevance, Page: 1, PageSize: 20}

	esQuery := buildSearchQuery(q)

	boolQuery := esQuery["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)

	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "espresso", multiMatch["query"])
	assert.Equal(t, []string{"name^3", "description"}, multiMatch["fields"])

	// Relevance with a text query uses default score ordering.
	assert.NotContains(t, esQuery, "sort")
	assert.Equal(t, 0, esQuery["from"])
	assert.Equal(t, 20, esQuery["size"])
}

func TestBuildSearchQuery_EmptyQueryMatchesAll(t *testing.T) {
	q := &domain.SearchQuery{Sort: domain.SortRelevance, Page: 2, PageSize: 5}

	esQuery := buildSearchQuery(q)

	boolQuery := esQuery["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	_, ok := must[0].(map[string]interface{})["match_all"]
	assert.True(t, ok, "empty query must produce match_all")

	// Empty query falls back to ascending ID for a deterministic page order.
	sort := esQuery["sort"].([]interface{})
	require.Len(t, sort, 1)
	assert.Equal(t, map[string]interface{}{"id": "asc"}, sort[0])

	assert.Equal(t, 5, esQuery["from"])
	assert.Equal(t, 5, esQuery["size"])
}

func TestBuildSearchQuery_PriceSort(t *testing.T) {
	q := &domain.SearchQuery{Query: "grinder", Sort: domain.SortPriceDesc, Page: 1, PageSize: 10}

	esQuery := buildSearchQuery(q)

	sort := esQuery["sort"].([]interface{})
	require.Len(t, sort, 1)
	assert.Equal(t, map[string]interface{}{"price": "desc"}, sort[0])
}

func TestBuildFilters_Categories(t *testing.T) {
	q := &domain.SearchQuery{CategoryIDs: []int64{1, 3}}

	filters := buildFilters(q)
	require.Len(t, filters, 1)

	terms := filters[0].(map[string]interface{})["terms"].(map[string]interface{})
	assert.Equal(t, []int64{1, 3}, terms["category_id"])
}

func TestBuildFilters_PriceRange(t *testing.T) {
	tests := []struct {
		name string
		min  *float64
		max  *float64
		want map[string]interface{}
	}{
		{"both bounds", floatPtr(10), floatPtr(50), map[string]interface{}{"gte": 10.0, "lte": 50.0}},
		{"min only", floatPtr(10), nil, map[string]interface{}{"gte": 10.0}},
		{"max only", nil, floatPtr(50), map[string]interface{}{"lte": 50.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &domain.SearchQuery{PriceMin: tt.min, PriceMax: tt.max}

			filters := buildFilters(q)
			require.Len(t, filters, 1)

			rangeFilter := filters[0].(map[string]interface{})["range"].(map[string]interface{})["price"].(map[string]interface{})
			assert.Equal(t, tt.want, rangeFilter)
		})
	}
}

func TestBuildFilters_Empty(t *testing.T) {
	assert.Empty(t, buildFilters(&domain.SearchQuery{}))
}

func TestTotalHitsScalarAndObject(t *testing.T) {
	var th totalHits
	require.NoError(t, json.Unmarshal([]byte(`{"value": 12, "relation": "eq"}`), &th))
	assert.Equal(t, 12, th.Value)

	require.NoError(t, json.Unmarshal([]byte(`7`), &th))
	assert.Equal(t, 7, th.Value)
}

func TestDecodeSearchResponse(t *testing.T) {
	raw := `{
		"took": 3,
		"hits": {
			"total": {"value": 1, "relation": "eq"},
			"hits": [
				{
					"_score": 2.5,
					"_source": {
						"id": 42,
						"name": "Espresso Machine",
						"description": "Pulls a mean shot",
						"price": 299.99,
						"category": {"id": 7, "name": "Coffee"},
						"category_id": 7,
						"suggest": {"input": ["Espresso Machine"]}
					}
				}
			]
		}
	}`

	var resp esSearchResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	require.Len(t, resp.Hits.Hits, 1)

	hit := projectHit(&resp.Hits.Hits[0].Source, resp.Hits.Hits[0].Score)
	assert.Equal(t, int64(42), hit.ID)
	assert.Equal(t, int64(7), hit.Category)
	assert.Equal(t, "Coffee", hit.CategoryName)
	require.NotNil(t, hit.Score)
	assert.Equal(t, 2.5, *hit.Score)
}

func TestDecodeSearchResponseNullScore(t *testing.T) {
	raw := `{
		"hits": {
			"total": 1,
			"hits": [{"_score": null, "_source": {"id": 1, "name": "x", "category": {"id": 2, "name": "y"}, "category_id": 2}}]
		}
	}`

	var resp esSearchResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.Nil(t, resp.Hits.Hits[0].Score)
	assert.Equal(t, 1, resp.Hits.Total.Value)
}

func TestDecodeSuggestResponse(t *testing.T) {
	raw := `{
		"suggest": {
			"product-suggest": [
				{"options": [{"text": "Espresso Machine"}, {"text": "Espresso Cups"}]}
			]
		}
	}`

	var resp esSuggestResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	var options []string
	for _, entry := range resp.Suggest[suggesterName] {
		for _, opt := range entry.Options {
			options = append(options, opt.Text)
		}
	}
	assert.Equal(t, []string{"Espresso Machine", "Espresso Cups"}, options)
}

func TestIndexMappingIsValidJSON(t *testing.T) {
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(buildIndexMapping()), &m))

	props := m["mappings"].(map[string]interface{})["properties"].(map[string]interface{})
	suggest := props["suggest"].(map[string]interface{})
	assert.Equal(t, "completion", suggest["type"])
}
