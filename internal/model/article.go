package model

// Article is one knowledge-base document from the help-center snapshot.
// URL is the unique key within a loaded snapshot; titles may repeat.
type Article struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Content   string `json:"content"`
	ScrapedAt string `json:"scraped_at,omitempty"`
	FetchedAt string `json:"fetched_at,omitempty"`
	// IsFresh marks a copy refetched from the live site during the current
	// request, as opposed to snapshot data. Never persisted.
	IsFresh bool `json:"-"`
}

// SearchResult is one ranked hit returned by the article searcher.
type SearchResult struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Snippet   string  `json:"snippet"`
	Score     float64 `json:"score"`
	ScrapedAt string  `json:"scraped_at"`
}
