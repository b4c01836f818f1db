package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/svetlov/catalog/internal/domain"
)

// Engine is an in-memory implementation of the search.Engine interface.
// It is used for local development without an Elasticsearch cluster and as
// a deterministic fake in tests. Scoring is a simplified text match: each
// query term found in the name scores 3, in the description 1, mirroring
// the field boosts of the live engine.
type Engine struct {
	mu   sync.RWMutex
	docs map[int64]domain.ProductDocument
}

// New creates an empty in-memory engine.
func New() *Engine {
	return &Engine{docs: make(map[int64]domain.ProductDocument)}
}

// Index adds or updates a single product document.
func (e *Engine) Index(_ context.Context, doc *domain.ProductDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs[doc.ID] = *doc
	return nil
}

// Delete removes a product document by ID. Missing documents are ignored.
func (e *Engine) Delete(_ context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.docs, id)
	return nil
}

// CreateIndex resets the engine to an empty state.
func (e *Engine) CreateIndex(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs = make(map[int64]domain.ProductDocument)
	return nil
}

// DeleteIndex drops all documents. Deleting an already empty index is fine.
func (e *Engine) DeleteIndex(ctx context.Context) error {
	return e.CreateIndex(ctx)
}

// Refresh is a no-op: documents are visible immediately.
func (e *Engine) Refresh(_ context.Context) error {
	return nil
}

// Ping always succeeds.
func (e *Engine) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of indexed documents.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs)
}

type scoredDoc struct {
	doc   domain.ProductDocument
	score float64
}

// Search executes a query over the in-memory documents with the same filter,
// sort, and pagination semantics as the live engine.
func (e *Engine) Search(_ context.Context, query *domain.SearchQuery) (*domain.SearchResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	terms := tokenize(query.Query)
	scored := true
	if len(terms) == 0 {
		scored = false
	}

	var matched []scoredDoc
	for _, doc := range e.docs {
		if !matchesFilters(&doc, query) {
			continue
		}

		if !scored {
			matched = append(matched, scoredDoc{doc: doc})
			continue
		}

		score := scoreDoc(&doc, terms)
		if score > 0 {
			matched = append(matched, scoredDoc{doc: doc, score: score})
		}
	}

	sortDocs(matched, query.Sort, scored)

	total := len(matched)
	from := query.From()
	if from > total {
		from = total
	}
	to := from + query.PageSize
	if to > total {
		to = total
	}

	hits := make([]domain.SearchHit, 0, to-from)
	for _, sd := range matched[from:to] {
		hit := domain.SearchHit{
			ID:           sd.doc.ID,
			Name:         sd.doc.Name,
			Description:  sd.doc.Description,
			Price:        sd.doc.Price,
			Category:     sd.doc.Category.ID,
			CategoryName: sd.doc.Category.Name,
			Image:        sd.doc.Image,
		}
		if scored {
			score := sd.score
			hit.Score = &score
		}
		hits = append(hits, hit)
	}

	return domain.NewSearchResult(query, total, hits), nil
}

// Suggest returns the suggest inputs that start with the query prefix,
// case-insensitively, deduplicated and sorted.
func (e *Engine) Suggest(_ context.Context, query *domain.SuggestQuery) (*domain.SuggestResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	prefix := strings.ToLower(query.Query)
	seen := make(map[string]struct{})
	options := []string{}

	for _, doc := range e.docs {
		for _, input := range doc.Suggest.Input {
			if !strings.HasPrefix(strings.ToLower(input), prefix) {
				continue
			}
			if _, ok := seen[input]; ok {
				continue
			}
			seen[input] = struct{}{}
			options = append(options, input)
		}
	}

	sort.Strings(options)
	if len(options) > query.Size {
		options = options[:query.Size]
	}

	return &domain.SuggestResult{
		Query:   query.Query,
		Options: options,
		Size:    query.Size,
	}, nil
}

func tokenize(q string) []string {
	return strings.Fields(strings.ToLower(q))
}

// scoreDoc counts term occurrences: 3 points per term in the name, 1 per
// term in the description.
func scoreDoc(doc *domain.ProductDocument, terms []string) float64 {
	name := strings.ToLower(doc.Name)
	desc := strings.ToLower(doc.Description)

	var score float64
	for _, term := range terms {
		if strings.Contains(name, term) {
			score += 3
		}
		if strings.Contains(desc, term) {
			score += 1
		}
	}
	return score
}

func matchesFilters(doc *domain.ProductDocument, query *domain.SearchQuery) bool {
	if len(query.CategoryIDs) > 0 {
		found := false
		for _, id := range query.CategoryIDs {
			if doc.CategoryID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if query.PriceMin != nil && doc.Price < *query.PriceMin {
		return false
	}
	if query.PriceMax != nil && doc.Price > *query.PriceMax {
		return false
	}

	return true
}

func sortDocs(docs []scoredDoc, sortBy string, scored bool) {
	sort.Slice(docs, func(i, j int) bool {
		switch sortBy {
		case domain.SortPriceAsc:
			if docs[i].doc.Price != docs[j].doc.Price {
				return docs[i].doc.Price < docs[j].doc.Price
			}
		case domain.SortPriceDesc:
			if docs[i].doc.Price != docs[j].doc.Price {
				return docs[i].doc.Price > docs[j].doc.Price
			}
		default:
			if scored && docs[i].score != docs[j].score {
				return docs[i].score > docs[j].score
			}
		}
		// Ties and match-all queries order by ascending ID.
		return docs[i].doc.ID < docs[j].doc.ID
	})
}
