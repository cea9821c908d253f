package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

func testArticles() []model.Article {
	return []model.Article{
		{
			Title:     "Snowflake Connection Setup",
			URL:       "https://help.example.com/articles/100",
			Content:   "How to configure the snowflake gateway using your snowflake credentials.",
			ScrapedAt: "2025-03-01 10:00:00",
		},
		{
			Title:   "Gateway Installation",
			URL:     "https://help.example.com/articles/101",
			Content: "Install the gateway on a Linux host and verify connectivity.",
		},
		{
			Title:   "Sample Data Loading",
			URL:     "https://help.example.com/articles/102",
			Content: "Load sample data into a project for quick testing.",
		},
		{
			Title:   "Release Notes",
			URL:     "https://help.example.com/articles/103",
			Content: "Minor fixes and improvements.",
		},
	}
}

func TestSearchRanksAndFilters(t *testing.T) {
	s := NewSearcher(NewStore(testArticles()), nil, "dvsum")
	results := s.Search("snowflake connection", 5)
	if len(results) == 0 {
		t.Fatalf("expected results")
	}
	if results[0].URL != "https://help.example.com/articles/100" {
		t.Errorf("best match = %s, want the snowflake article", results[0].URL)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results out of order at %d: %v > %v", i, results[i].Score, results[i-1].Score)
		}
	}
	for _, r := range results {
		if r.Score < DefaultMinScore {
			t.Errorf("result %s below min score: %v", r.URL, r.Score)
		}
		if r.Snippet == "" {
			t.Errorf("result %s has no snippet", r.URL)
		}
	}
	if results[0].ScrapedAt != "2025-03-01 10:00:00" {
		t.Errorf("scraped_at = %q", results[0].ScrapedAt)
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	s := NewSearcher(NewStore(testArticles()), nil, "dvsum")
	results := s.Search("gateway", 1)
	if len(results) > 1 {
		t.Fatalf("want at most 1 result, got %d", len(results))
	}
}

func TestSearchEmptyStore(t *testing.T) {
	s := NewSearcher(NewStore(nil), nil, "dvsum")
	results := s.Search("gateway installation", 5)
	if results == nil {
		t.Fatalf("want empty slice, got nil")
	}
	if len(results) != 0 {
		t.Fatalf("want no results, got %d", len(results))
	}
}

func TestSearchStopWordQueryFindsNothing(t *testing.T) {
	s := NewSearcher(NewStore(testArticles()), nil, "dvsum")
	if results := s.Search("how can I the", 5); len(results) != 0 {
		t.Fatalf("stop-word query should score zero everywhere, got %d results", len(results))
	}
}

func TestSearchTieBreakByURL(t *testing.T) {
	store := NewStore([]model.Article{
		{Title: "Duplicate Topic", URL: "https://help.example.com/articles/9", Content: "same body"},
		{Title: "Duplicate Topic", URL: "https://help.example.com/articles/1", Content: "same body"},
	})
	s := NewSearcher(store, nil, "dvsum")
	results := s.Search("duplicate topic", 5)
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
	if results[0].URL >= results[1].URL {
		t.Errorf("equal scores should order by URL: %s before %s", results[0].URL, results[1].URL)
	}
}

func TestSearchMissingScrapedAtReportsUnknown(t *testing.T) {
	s := NewSearcher(NewStore(testArticles()), nil, "dvsum")
	results := s.Search("gateway installation", 5)
	if len(results) == 0 {
		t.Fatalf("expected results")
	}
	if results[0].ScrapedAt != "Unknown" {
		t.Errorf("scraped_at fallback = %q, want Unknown", results[0].ScrapedAt)
	}
}

type fakeFetcher struct {
	article model.Article
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (model.Article, error) {
	f.calls++
	if f.err != nil {
		return model.Article{}, f.err
	}
	a := f.article
	a.URL = url
	a.IsFresh = true
	return a, nil
}

func TestBuildContextFormat(t *testing.T) {
	s := NewSearcher(NewStore(testArticles()), nil, "dvsum")
	got := s.BuildContext(context.Background(), "snowflake connection", ContextOptions{MaxArticles: 2})
	if !strings.HasPrefix(got, "RELEVANT INFORMATION FROM DVSUM KNOWLEDGE BASE:\n\n") {
		t.Fatalf("missing header: %q", got[:60])
	}
	if !strings.Contains(got, "Article 1: Snowflake Connection Setup\n") {
		t.Errorf("missing first article heading:\n%s", got)
	}
	if !strings.Contains(got, "URL: https://help.example.com/articles/100\n") {
		t.Errorf("missing article URL:\n%s", got)
	}
	if !strings.Contains(got, "Scraped: 2025-03-01 10:00:00\n") {
		t.Errorf("missing scraped marker:\n%s", got)
	}
	if !strings.Contains(got, strings.Repeat("-", 80)) {
		t.Errorf("missing separator rule:\n%s", got)
	}
}

func TestBuildContextNoMatchesReturnsEmpty(t *testing.T) {
	s := NewSearcher(NewStore(testArticles()), nil, "dvsum")
	if got := s.BuildContext(context.Background(), "zzzz qqqq", ContextOptions{MaxArticles: 2}); got != "" {
		t.Fatalf("want empty context, got %q", got)
	}
}

func TestBuildContextFreshFetch(t *testing.T) {
	fetcher := &fakeFetcher{article: model.Article{Title: "Fresh Copy", Content: "fresh gateway body"}}
	s := NewSearcher(NewStore(testArticles()), fetcher, "dvsum")
	got := s.BuildContext(context.Background(), "gateway installation", ContextOptions{MaxArticles: 1, FetchFresh: true})
	if fetcher.calls == 0 {
		t.Fatalf("fetcher was not consulted")
	}
	if !strings.Contains(got, "Status: Fresh content (fetched just now)\n") {
		t.Errorf("missing fresh status line:\n%s", got)
	}
	if !strings.Contains(got, "fresh gateway body") {
		t.Errorf("fresh content not used:\n%s", got)
	}
}

func TestBuildContextFetchFailureFallsBackToCache(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	s := NewSearcher(NewStore(testArticles()), fetcher, "dvsum")
	got := s.BuildContext(context.Background(), "gateway installation", ContextOptions{MaxArticles: 1, FetchFresh: true})
	if fetcher.calls == 0 {
		t.Fatalf("fetcher was not consulted")
	}
	if got == "" {
		t.Fatalf("fetch failure must not drop the context")
	}
	if !strings.Contains(got, "Install the gateway on a Linux host") {
		t.Errorf("cached content missing after fallback:\n%s", got)
	}
	if strings.Contains(got, "Status: Fresh content") {
		t.Errorf("failed fetch should not be marked fresh:\n%s", got)
	}
}

func TestBuildContextTruncatesLongArticles(t *testing.T) {
	long := model.Article{
		Title:   "Gateway Deep Dive",
		URL:     "https://help.example.com/articles/200",
		Content: "gateway " + strings.Repeat("detail ", 1000),
	}
	s := NewSearcher(NewStore([]model.Article{long}), nil, "dvsum")
	got := s.BuildContext(context.Background(), "gateway deep dive", ContextOptions{MaxArticles: 1})
	idx := strings.Index(got, "Content:\n")
	if idx < 0 {
		t.Fatalf("no content section:\n%s", got)
	}
	rest := got[idx+len("Content:\n"):]
	end := strings.Index(rest, "\n\n"+strings.Repeat("-", 80))
	if end < 0 {
		t.Fatalf("no separator after content:\n%s", got)
	}
	if body := rest[:end]; len(body) != 3500 {
		t.Errorf("context body length = %d, want 3500", len(body))
	}
}
