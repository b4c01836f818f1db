package indexer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svetlov/catalog/internal/domain"
	"github.com/svetlov/catalog/internal/repository"
	"github.com/svetlov/catalog/internal/search/memory"
)

// fakeProductRepo serves a fixed product list to the syncer.
type fakeProductRepo struct {
	products []domain.Product
	listErr  error
}

func (f *fakeProductRepo) Create(context.Context, *domain.Product) error { return nil }
func (f *fakeProductRepo) GetByID(context.Context, int64) (*domain.Product, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeProductRepo) List(context.Context, repository.ProductFilter) ([]domain.Product, int, error) {
	return f.products, len(f.products), nil
}
func (f *fakeProductRepo) Update(context.Context, *domain.Product) error { return nil }
func (f *fakeProductRepo) Delete(context.Context, int64) error           { return nil }

func (f *fakeProductRepo) ListByCategory(_ context.Context, categoryID int64) ([]domain.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Product
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListIDsByCategory(_ context.Context, categoryID int64) ([]int64, error) {
	var ids []int64
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (f *fakeProductRepo) ListForIndexing(_ context.Context, afterID int64, limit int) ([]domain.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Product
	for _, p := range f.products {
		if p.ID > afterID {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// flakyEngine wraps the memory engine and fails Index for selected IDs.
type flakyEngine struct {
	*memory.Engine
	failIDs map[int64]bool
}

func (e *flakyEngine) Index(ctx context.Context, doc *domain.ProductDocument) error {
	if e.failIDs[doc.ID] {
		return errors.New("index unavailable")
	}
	return e.Engine.Index(ctx, doc)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, CategoryID: 1, CategoryName: "Coffee", Name: "Espresso Machine", Price: 299.99},
		{ID: 2, CategoryID: 1, CategoryName: "Coffee", Name: "Coffee Grinder", Price: 89.50},
		{ID: 3, CategoryID: 2, CategoryName: "Tea", Name: "Tea Kettle", Price: 45.00},
	}
}

func TestProductSavedRoundTrip(t *testing.T) {
	engine := memory.New()
	syncer := NewSyncer(engine, &fakeProductRepo{}, testLogger())

	p := sampleProducts()[0]
	require.NoError(t, syncer.ProductSaved(context.Background(), &p))

	res, err := engine.Search(context.Background(), &domain.SearchQuery{
		Query: "espresso", Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, int64(1), res.Results[0].ID)
	assert.Equal(t, "Coffee", res.Results[0].CategoryName)
}

func TestProductDeletedIdempotent(t *testing.T) {
	engine := memory.New()
	syncer := NewSyncer(engine, &fakeProductRepo{}, testLogger())

	p := sampleProducts()[0]
	require.NoError(t, syncer.ProductSaved(context.Background(), &p))
	require.NoError(t, syncer.ProductDeleted(context.Background(), p.ID))
	require.NoError(t, syncer.ProductDeleted(context.Background(), p.ID))
	assert.Equal(t, 0, engine.Len())
}

func TestRebuildIndexesAllProducts(t *testing.T) {
	engine := memory.New()
	repo := &fakeProductRepo{products: sampleProducts()}
	syncer := NewSyncer(engine, repo, testLogger())

	report, err := syncer.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Indexed)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 3, engine.Len())
}

func TestRebuildDropsStaleDocuments(t *testing.T) {
	engine := memory.New()
	stale := domain.ProductDocument{ID: 99, Name: "Ghost Product"}
	require.NoError(t, engine.Index(context.Background(), &stale))

	repo := &fakeProductRepo{products: sampleProducts()}
	syncer := NewSyncer(engine, repo, testLogger())

	_, err := syncer.Rebuild(context.Background())
	require.NoError(t, err)

	res, err := engine.Search(context.Background(), &domain.SearchQuery{
		Query: "ghost", Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

func TestRebuildCountsPerDocumentFailures(t *testing.T) {
	engine := &flakyEngine{Engine: memory.New(), failIDs: map[int64]bool{2: true}}
	repo := &fakeProductRepo{products: sampleProducts()}
	syncer := NewSyncer(engine, repo, testLogger())

	report, err := syncer.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 1, report.Failed)
}

func TestRebuildFailsWhenStoreUnavailable(t *testing.T) {
	engine := memory.New()
	repo := &fakeProductRepo{listErr: errors.New("connection refused")}
	syncer := NewSyncer(engine, repo, testLogger())

	_, err := syncer.Rebuild(context.Background())
	require.Error(t, err)
}

func TestCategoryUpdatedReindexesCategoryProducts(t *testing.T) {
	engine := memory.New()
	products := sampleProducts()
	repo := &fakeProductRepo{products: products}
	syncer := NewSyncer(engine, repo, testLogger())

	for i := range products {
		require.NoError(t, syncer.ProductSaved(context.Background(), &products[i]))
	}

	// Category rename: products in the repo now carry the new name.
	for i := range repo.products {
		if repo.products[i].CategoryID == 1 {
			repo.products[i].CategoryName = "Coffee & Espresso"
		}
	}

	report, err := syncer.CategoryUpdated(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)

	res, err := engine.Search(context.Background(), &domain.SearchQuery{
		CategoryIDs: []int64{1}, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	for _, hit := range res.Results {
		assert.Equal(t, "Coffee & Espresso", hit.CategoryName)
	}
	// Products outside the category are untouched.
	other, err := engine.Search(context.Background(), &domain.SearchQuery{
		CategoryIDs: []int64{2}, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, other.Results, 1)
	assert.Equal(t, "Tea", other.Results[0].CategoryName)
}

func TestCategoryUpdatedToleratesPartialFailure(t *testing.T) {
	engine := &flakyEngine{Engine: memory.New(), failIDs: map[int64]bool{1: true}}
	repo := &fakeProductRepo{products: sampleProducts()}
	syncer := NewSyncer(engine, repo, testLogger())

	report, err := syncer.CategoryUpdated(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Indexed)
	assert.Equal(t, 1, report.Failed)
}

func TestCategoryDeletedRemovesDocuments(t *testing.T) {
	engine := memory.New()
	products := sampleProducts()
	syncer := NewSyncer(engine, &fakeProductRepo{}, testLogger())

	for i := range products {
		require.NoError(t, syncer.ProductSaved(context.Background(), &products[i]))
	}

	report, err := syncer.CategoryDeleted(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 1, engine.Len())
}
