package search

// Result is a single article hit returned to the caller.
type Result struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Snippet      string `json:"snippet"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// Query describes a search request.
type Query struct {
	Text       string
	CategoryID string // empty = all categories
	Limit      int
	Offset     int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search over articles.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// Indexer can push articles into a search index.
type Indexer interface {
	IndexArticle(a ArticleRecord) error
	DeleteArticle(id string) error
}

// ArticleRecord is the data we index per article. The body is left out;
// title, summary, and tags are what readers search by.
type ArticleRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	CategoryID   string   `json:"categoryId"`
	CategoryName string   `json:"categoryName"`
	Tags         []string `json:"tags"`
}
