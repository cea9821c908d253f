package zendesk

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

// Renderer fetches a page through a remote browser for help centers that
// only produce their content from JavaScript.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// ScraperConfig configures a full help-center crawl.
type ScraperConfig struct {
	BaseURL string
	// RequestDelay spaces successive page fetches.
	RequestDelay time.Duration
}

// Scraper walks a help center and collects every article it can reach:
// base page, categories and sections, then the articles they link to.
type Scraper struct {
	client   *Client
	renderer Renderer
	baseURL  string
	delay    time.Duration
	visited  map[string]bool
}

// NewScraper builds a scraper around a shared client. renderer may be nil;
// without it pages that need JavaScript are skipped when plain HTTP fails.
func NewScraper(client *Client, renderer Renderer, cfg ScraperConfig) *Scraper {
	return &Scraper{
		client:   client,
		renderer: renderer,
		baseURL:  cfg.BaseURL,
		delay:    cfg.RequestDelay,
		visited:  make(map[string]bool),
	}
}

// ScrapeAll crawls the whole help center. Individual page failures are
// logged and skipped; only an unreachable base page fails the crawl.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]model.Article, error) {
	basePage, err := s.fetch(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}

	categories := s.categoryLinks(basePage)
	slog.Info("categories discovered", "count", len(categories))

	var articleURLs []string
	if len(categories) == 0 {
		slog.Warn("no categories found, looking for article links on the base page")
		articleURLs = s.collectArticleLinks(basePage)
	} else {
		for _, categoryURL := range categories {
			if strings.Contains(categoryURL, "/articles/") {
				if !s.markVisited(categoryURL) {
					articleURLs = append(articleURLs, categoryURL)
				}
				continue
			}
			page, err := s.fetch(ctx, categoryURL)
			if err != nil {
				slog.Warn("category fetch failed", "url", categoryURL, "error", err)
			} else {
				found := s.collectArticleLinks(page)
				slog.Info("articles found in category", "url", categoryURL, "count", len(found))
				articleURLs = append(articleURLs, found...)
			}
			if err := s.sleep(ctx); err != nil {
				return nil, err
			}
		}
	}

	slog.Info("unique articles to scrape", "count", len(articleURLs))

	var articles []model.Article
	for _, articleURL := range articleURLs {
		article, err := s.scrapeArticle(ctx, articleURL)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return articles, err
			}
			slog.Warn("article scrape failed", "url", articleURL, "error", err)
		} else {
			articles = append(articles, article)
		}
		if err := s.sleep(ctx); err != nil {
			return articles, err
		}
	}

	slog.Info("scrape complete", "articles", len(articles))
	return articles, nil
}

func (s *Scraper) scrapeArticle(ctx context.Context, articleURL string) (model.Article, error) {
	page, err := s.fetch(ctx, articleURL)
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
		ScrapedAt: time.Now().Format("2006-01-02 15:04:05"),
	}, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	return fetchPage(ctx, s.client, s.renderer, pageURL)
}

// fetchPage tries plain HTTP first and falls back to the browser renderer.
// Robots denials never fall back: the policy applies to both paths.
func fetchPage(ctx context.Context, client *Client, renderer Renderer, pageURL string) ([]byte, error) {
	page, err := client.Get(ctx, pageURL)
	if err == nil {
		return page, nil
	}
	if renderer == nil || errors.Is(err, ErrRobotsDisallowed) || ctx.Err() != nil {
		return nil, err
	}
	slog.Debug("plain fetch failed, rendering", "url", pageURL, "error", err)
	rendered, rerr := renderer.Render(ctx, pageURL)
	if rerr != nil {
		return nil, err
	}
	return []byte(rendered), nil
}

// categoryLinks returns the unique category and section URLs on the page,
// in document order.
func (s *Scraper) categoryLinks(page []byte) []string {
	links, err := Links(page, s.baseURL)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var categories []string
	for _, link := range links {
		if !strings.Contains(link, "/categories/") && !strings.Contains(link, "/sections/") {
			continue
		}
		if key, err := Normalize(link); err == nil {
			link = key
		}
		if !seen[link] {
			seen[link] = true
			categories = append(categories, link)
		}
	}
	return categories
}

// collectArticleLinks returns article URLs on the page that have not been
// seen before, marking them visited.
func (s *Scraper) collectArticleLinks(page []byte) []string {
	links, err := Links(page, s.baseURL)
	if err != nil {
		return nil
	}
	var articles []string
	for _, link := range links {
		if !strings.Contains(link, "/articles/") {
			continue
		}
		if key, err := Normalize(link); err == nil {
			link = key
		}
		if !s.markVisited(link) {
			articles = append(articles, link)
		}
	}
	return articles
}

// markVisited records the URL and reports whether it was already known.
func (s *Scraper) markVisited(link string) bool {
	if s.visited[link] {
		return true
	}
	s.visited[link] = true
	return false
}

func (s *Scraper) sleep(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}
