package models

import "time"

type Source string

const (
	SourceScraping  Source = "scraping"
	SourceAlternate Source = "alternate"
	SourceMock      Source = "mock"
)

// SearchResult is the outcome of one pipeline run.
type SearchResult struct {
	Query     string          `json:"query"`
	Products  []ProductRecord `json:"products"`
	Source    Source          `json:"source"`
	Cached    bool            `json:"cached"`
	CreatedAt time.Time       `json:"created_at"`
}

// CacheEntry is what the result cache persists per normalized query.
type CacheEntry struct {
	Query     string          `json:"query"`
	Products  []ProductRecord `json:"products"`
	Source    Source          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}

func (e CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) >= ttl
}

type CacheStats struct {
	TotalEntries   int `json:"total_entries"`
	ValidEntries   int `json:"valid_entries"`
	ExpiredEntries int `json:"expired_entries"`
}

// SearchEvent is published after every completed search.
type SearchEvent struct {
	RequestID  string    `json:"request_id,omitempty"`
	Query      string    `json:"query"`
	Source     Source    `json:"source"`
	Cached     bool      `json:"cached"`
	Count      int       `json:"count"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// SearchResponse is the body of every 200 answer of the search endpoint.
type SearchResponse struct {
	Success  bool            `json:"success"`
	Query    string          `json:"query"`
	Count    int             `json:"count"`
	Products []ProductRecord `json:"products"`
	Source   Source          `json:"source,omitempty"`
	Cached   bool            `json:"cached"`
	Message  string          `json:"message,omitempty"`
}

const SearchUnavailableMessage = "Search temporarily unavailable. Please try again in a moment."

func NewSearchResponse(res *SearchResult) SearchResponse {
	products := res.Products
	if products == nil {
		products = []ProductRecord{}
	}
	return SearchResponse{
		Success:  true,
		Query:    res.Query,
		Count:    len(products),
		Products: products,
		Source:   res.Source,
		Cached:   res.Cached,
	}
}

// UnavailableSearchResponse is served when the pipeline fails unexpectedly.
func UnavailableSearchResponse(query string) SearchResponse {
	return SearchResponse{
		Success:  true,
		Query:    query,
		Products: []ProductRecord{},
		Message:  SearchUnavailableMessage,
	}
}
