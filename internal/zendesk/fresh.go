package zendesk

import (
	"context"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

// Fetcher retrieves a single article live from the help center, for
// callers that want current content instead of the snapshot copy.
type Fetcher struct {
	client   *Client
	renderer Renderer
}

// NewFetcher builds a live-article fetcher. renderer may be nil.
func NewFetcher(client *Client, renderer Renderer) *Fetcher {
	return &Fetcher{client: client, renderer: renderer}
}

// Fetch downloads and extracts one article. The returned article is marked
// fresh and stamped with the fetch time.
func (f *Fetcher) Fetch(ctx context.Context, articleURL string) (model.Article, error) {
	page, err := fetchPage(ctx, f.client, f.renderer, articleURL)
	if err != nil {
		return model.Article{}, err
	}

	title, content, err := ExtractArticle(page)
	if err != nil {
		return model.Article{}, err
	}
	return model.Article{
		Title:     title,
		URL:       articleURL,
		Content:   content,
		FetchedAt: time.Now().Format("2006-01-02 15:04:05"),
		IsFresh:   true,
	}, nil
}
