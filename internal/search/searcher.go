package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

const (
	// DefaultMaxResults caps how many results a search returns when the
	// caller does not ask for a specific number.
	DefaultMaxResults = 5
	// DefaultMinScore is the relevance floor below which articles are
	// dropped from search results.
	DefaultMinScore = 0.1

	// Context assembly uses a higher floor and a hard cap on how much of
	// each article body is included.
	contextMinScore    = 0.15
	contextMaxChars    = 3500
	defaultCtxArticles = 2
)

// Fetcher retrieves the live version of an article from its source URL,
// bypassing the snapshot. Implementations own their HTTP client and its
// lifetime.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (model.Article, error)
}

// Searcher ranks knowledge-base articles against free-text queries.
type Searcher struct {
	store   *Store
	fetcher Fetcher
	product string
}

// NewSearcher creates a searcher over the given store. fetcher may be nil;
// fresh fetches then silently fall back to cached content. product names
// the knowledge base in generated context blocks.
func NewSearcher(store *Store, fetcher Fetcher, product string) *Searcher {
	if product == "" {
		product = "product"
	}
	return &Searcher{store: store, fetcher: fetcher, product: product}
}

// Store exposes the underlying article store.
func (s *Searcher) Store() *Store {
	return s.store
}

// Search scores every article in the store against the query and returns
// the top matches with display snippets, ordered by descending score.
// maxResults <= 0 means DefaultMaxResults. An empty store yields an empty
// result list, never an error.
func (s *Searcher) Search(query string, maxResults int) []model.SearchResult {
	return s.searchMin(query, maxResults, DefaultMinScore)
}

func (s *Searcher) searchMin(query string, maxResults int, minScore float64) []model.SearchResult {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	articles := s.store.Articles()
	results := make([]model.SearchResult, 0, maxResults)
	if len(articles) == 0 {
		return results
	}
	slog.Debug("searching articles", "query", query, "articles", len(articles))

	type candidate struct {
		article model.Article
		score   float64
	}
	candidates := make([]candidate, 0, len(articles))
	for _, a := range articles {
		if score := Score(query, a); score >= minScore {
			candidates = append(candidates, candidate{article: a, score: score})
		}
	}

	// Descending by score; ties break on URL so ordering is deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].article.URL < candidates[j].article.URL
	})
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	for _, c := range candidates {
		results = append(results, model.SearchResult{
			Title:     c.article.Title,
			URL:       c.article.URL,
			Snippet:   Snippet(query, c.article.Content, DefaultSnippetLength),
			Score:     c.score,
			ScrapedAt: scrapedAtOrUnknown(c.article.ScrapedAt),
		})
	}
	return results
}

// ContextOptions control knowledge-base context assembly.
type ContextOptions struct {
	// MaxArticles is how many articles to include; <= 0 means 2.
	MaxArticles int
	// FetchFresh refetches each selected article from the live site,
	// falling back to the cached copy when the fetch fails.
	FetchFresh bool
}

// BuildContext searches the knowledge base and formats the best-matching
// articles into a context block for the language model. It returns the
// empty string when nothing relevant was found; fetch failures degrade to
// cached content and are never surfaced.
func (s *Searcher) BuildContext(ctx context.Context, query string, opts ContextOptions) string {
	maxArticles := opts.MaxArticles
	if maxArticles <= 0 {
		maxArticles = defaultCtxArticles
	}

	// Over-fetch so dropped candidates still leave enough articles.
	results := s.searchMin(query, maxArticles*2, contextMinScore)
	if len(results) == 0 {
		return ""
	}
	if len(results) > maxArticles {
		results = results[:maxArticles]
	}

	articles := make([]model.Article, 0, len(results))
	for _, r := range results {
		if opts.FetchFresh && s.fetcher != nil {
			fresh, err := s.fetcher.Fetch(ctx, r.URL)
			if err == nil {
				articles = append(articles, fresh)
				continue
			}
			slog.Warn("fresh fetch failed, falling back to cached article", "url", r.URL, "err", err)
		}
		if cached, ok := s.store.ByURL(r.URL); ok {
			articles = append(articles, cached)
		}
	}
	if len(articles) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RELEVANT INFORMATION FROM %s KNOWLEDGE BASE:\n\n", strings.ToUpper(s.product))
	for i, a := range articles {
		fmt.Fprintf(&b, "Article %d: %s\n", i+1, a.Title)
		fmt.Fprintf(&b, "URL: %s\n", a.URL)
		if a.IsFresh {
			b.WriteString("Status: Fresh content (fetched just now)\n")
		} else {
			fmt.Fprintf(&b, "Scraped: %s\n", scrapedAtOrUnknown(a.ScrapedAt))
		}
		fmt.Fprintf(&b, "\nContent:\n%s\n\n", truncateRunes(a.Content, contextMaxChars))
		b.WriteString(strings.Repeat("-", 80) + "\n\n")
	}
	return b.String()
}

func scrapedAtOrUnknown(ts string) string {
	if strings.TrimSpace(ts) == "" {
		return "Unknown"
	}
	return ts
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
