package domain

// Sort options for search results.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ValidSortOptions returns the list of valid sort options.
func ValidSortOptions() []string {
	return []string{SortRelevance, SortPriceAsc, SortPriceDesc}
}

// IsValidSort checks whether the given sort string is a valid sort option.
func IsValidSort(sort string) bool {
	for _, s := range ValidSortOptions() {
		if s == sort {
			return true
		}
	}
	return false
}

// SearchQuery holds all parameters for a search request. Nil price bounds
// mean the corresponding side of the range is open.
type SearchQuery struct {
	Query       string   `json:"query"`
	CategoryIDs []int64  `json:"category_ids,omitempty"`
	PriceMin    *float64 `json:"price_min,omitempty"`
	PriceMax    *float64 `json:"price_max,omitempty"`
	Sort        string   `json:"sort"`
	Page        int      `json:"page"`
	PageSize    int      `json:"page_size"`
}

// From returns the zero-based offset of the first result in the requested page.
func (q *SearchQuery) From() int {
	return (q.Page - 1) * q.PageSize
}

// SearchHit is a single product returned from the search index. Score is nil
// for match-all queries, where relevance is undefined.
type SearchHit struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Category     int64    `json:"category"`
	CategoryName string   `json:"category_name"`
	Image        string   `json:"image,omitempty"`
	Score        *float64 `json:"_score"`
}

// SearchResult holds one page of search hits plus the pagination window.
type SearchResult struct {
	Count    int         `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	HasNext  bool        `json:"has_next"`
	HasPrev  bool        `json:"has_prev"`
	Results  []SearchHit `json:"results"`
}

// NewSearchResult assembles a result page. Count is the total number of
// matching documents across all pages, hits the slice for this page only.
func NewSearchResult(q *SearchQuery, count int, hits []SearchHit) *SearchResult {
	if hits == nil {
		hits = []SearchHit{}
	}
	from := q.From()
	return &SearchResult{
		Count:    count,
		Page:     q.Page,
		PageSize: q.PageSize,
		HasPrev:  from > 0,
		HasNext:  from+q.PageSize < count,
		Results:  hits,
	}
}

// SuggestQuery holds parameters for an autocomplete request.
type SuggestQuery struct {
	Query string `json:"q"`
	Size  int    `json:"size"`
}

// SuggestResult holds autocomplete options for a prefix.
type SuggestResult struct {
	Query   string   `json:"q"`
	Options []string `json:"options"`
	Size    int      `json:"size"`
}

// DocumentCategory is the category object embedded in a product document.
type DocumentCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CompletionField is the payload for a completion suggester field.
type CompletionField struct {
	Input []string `json:"input"`
}

// ProductDocument is the shape of a product as stored in the search index.
// CategoryID is duplicated at the top level so term filters do not need a
// nested query.
type ProductDocument struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Category    DocumentCategory `json:"category"`
	CategoryID  int64            `json:"category_id"`
	Image       string           `json:"image,omitempty"`
	Suggest     CompletionField  `json:"suggest"`
}

// NewProductDocument builds an index document from a product. The product
// must carry its category name (reads that feed the index join it in).
func NewProductDocument(p *Product) *ProductDocument {
	return &ProductDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category: DocumentCategory{
			ID:   p.CategoryID,
			Name: p.CategoryName,
		},
		CategoryID: p.CategoryID,
		Image:      p.Image,
		Suggest:    CompletionField{Input: []string{p.Name}},
	}
}
