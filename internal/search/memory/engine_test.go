package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svetlov/catalog/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func seedEngine(t *testing.T) *Engine {
	t.Helper()
	e := New()
	docs := []domain.ProductDocument{
		{ID: 1, Name: "Espresso Machine", Description: "Pulls a mean shot", Price: 299.99,
			Category: domain.DocumentCategory{ID: 1, Name: "Coffee"}, CategoryID: 1,
			Suggest: domain.CompletionField{Input: []string{"Espresso Machine"}}},
		{ID: 2, Name: "Coffee Grinder", Description: "Burr grinder for espresso", Price: 89.50,
			Category: domain.DocumentCategory{ID: 1, Name: "Coffee"}, CategoryID: 1,
			Suggest: domain.CompletionField{Input: []string{"Coffee Grinder"}}},
		{ID: 3, Name: "Tea Kettle", Description: "Gooseneck kettle", Price: 45.00,
			Category: domain.DocumentCategory{ID: 2, Name: "Tea"}, CategoryID: 2,
			Suggest: domain.CompletionField{Input: []string{"Tea Kettle"}}},
	}
	for i := range docs {
		require.NoError(t, e.Index(context.Background(), &docs[i]))
	}
	return e
}

func TestSearchTextQueryScoresNameOverDescription(t *testing.T) {
	e := seedEngine(t)

	res, err := e.Search(context.Background(), &domain.SearchQuery{
		Query: "espresso", Sort: domain.SortRelevance, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	// "espresso" in the name (3) outranks "espresso" in the description (1).
	assert.Equal(t, int64(1), res.Results[0].ID)
	assert.Equal(t, int64(2), res.Results[1].ID)
	require.NotNil(t, res.Results[0].Score)
	assert.Greater(t, *res.Results[0].Score, *res.Results[1].Score)
}

func TestSearchEmptyQueryOrdersByID(t *testing.T) {
	e := seedEngine(t)

	res, err := e.Search(context.Background(), &domain.SearchQuery{
		Sort: domain.SortRelevance, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 3)
	assert.Equal(t, int64(1), res.Results[0].ID)
	assert.Equal(t, int64(2), res.Results[1].ID)
	assert.Equal(t, int64(3), res.Results[2].ID)
	// Match-all queries carry no relevance score.
	assert.Nil(t, res.Results[0].Score)
}

func TestSearchCategoryFilter(t *testing.T) {
	e := seedEngine(t)

	res, err := e.Search(context.Background(), &domain.SearchQuery{
		CategoryIDs: []int64{2}, Sort: domain.SortRelevance, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	assert.Equal(t, int64(3), res.Results[0].ID)
}

func TestSearchPriceRange(t *testing.T) {
	e := seedEngine(t)

	res, err := e.Search(context.Background(), &domain.SearchQuery{
		PriceMin: floatPtr(50), PriceMax: floatPtr(100),
		Sort: domain.SortRelevance, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	assert.Equal(t, int64(2), res.Results[0].ID)
}

func TestSearchPriceSort(t *testing.T) {
	e := seedEngine(t)

	res, err := e.Search(context.Background(), &domain.SearchQuery{
		Sort: domain.SortPriceDesc, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 3)
	assert.Equal(t, 299.99, res.Results[0].Price)
	assert.Equal(t, 45.00, res.Results[2].Price)
}

func TestSearchPaginationWindow(t *testing.T) {
	e := New()
	for i := int64(1); i <= 12; i++ {
		require.NoError(t, e.Index(context.Background(), &domain.ProductDocument{
			ID: i, Name: "Widget", CategoryID: 1,
		}))
	}

	res, err := e.Search(context.Background(), &domain.SearchQuery{Page: 2, PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, 12, res.Count)
	assert.True(t, res.HasPrev)
	assert.True(t, res.HasNext)
	require.Len(t, res.Results, 5)
	assert.Equal(t, int64(6), res.Results[0].ID)
	assert.Equal(t, int64(10), res.Results[4].ID)

	res, err = e.Search(context.Background(), &domain.SearchQuery{Page: 3, PageSize: 5})
	require.NoError(t, err)
	assert.False(t, res.HasNext)
	assert.Len(t, res.Results, 2)
}

func TestSearchPageBeyondEnd(t *testing.T) {
	e := seedEngine(t)

	res, err := e.Search(context.Background(), &domain.SearchQuery{Page: 9, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Count)
	assert.Empty(t, res.Results)
	assert.True(t, res.HasPrev)
	assert.False(t, res.HasNext)
}

func TestDeleteIsIdempotent(t *testing.T) {
	e := seedEngine(t)

	require.NoError(t, e.Delete(context.Background(), 1))
	require.NoError(t, e.Delete(context.Background(), 1))
	assert.Equal(t, 2, e.Len())
}

func TestIndexOverwritesExistingDocument(t *testing.T) {
	e := seedEngine(t)

	require.NoError(t, e.Index(context.Background(), &domain.ProductDocument{
		ID: 1, Name: "Espresso Machine Pro", CategoryID: 1,
		Category: domain.DocumentCategory{ID: 1, Name: "Coffee"},
	}))

	res, err := e.Search(context.Background(), &domain.SearchQuery{Query: "pro", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Espresso Machine Pro", res.Results[0].Name)
	assert.Equal(t, 3, e.Len())
}

func TestSuggestPrefixMatch(t *testing.T) {
	e := seedEngine(t)

	res, err := e.Suggest(context.Background(), &domain.SuggestQuery{Query: "co", Size: 5})
	require.NoError(t, err)

	assert.Equal(t, "co", res.Query)
	assert.Equal(t, []string{"Coffee Grinder"}, res.Options)
}

func TestSuggestSizeLimit(t *testing.T) {
	e := New()
	names := []string{"Kettle A", "Kettle B", "Kettle C"}
	for i, name := range names {
		require.NoError(t, e.Index(context.Background(), &domain.ProductDocument{
			ID: int64(i + 1), Name: name,
			Suggest: domain.CompletionField{Input: []string{name}},
		}))
	}

	res, err := e.Suggest(context.Background(), &domain.SuggestQuery{Query: "kettle", Size: 2})
	require.NoError(t, err)
	assert.Len(t, res.Options, 2)
}

func TestDeleteIndexClearsDocuments(t *testing.T) {
	e := seedEngine(t)

	require.NoError(t, e.DeleteIndex(context.Background()))
	assert.Equal(t, 0, e.Len())
	require.NoError(t, e.DeleteIndex(context.Background()))
}
