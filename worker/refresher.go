package worker

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/model"
	"github.com/pk527236/ai-support-assistant/internal/search"
)

const (
	articleTimeLayout = "2006-01-02 15:04:05"
	maxRefreshFetches = 3
)

// ArticleRefresher periodically refetches the stalest cached articles
// from the live help center so the in-memory knowledge base does not
// drift too far between full scrapes. A fresh full scrape arriving via
// the snapshot reloader supersedes anything refreshed here.
type ArticleRefresher struct {
	Store    *search.Store
	Fetcher  search.Fetcher
	Interval time.Duration
	Batch    int
}

func (w *ArticleRefresher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 6 * time.Hour
	}
	if w.Batch <= 0 {
		w.Batch = 5
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ArticleRefresher) runOnce(ctx context.Context) {
	current := w.Store.Articles()
	if len(current) == 0 {
		return
	}
	updated := append([]model.Article(nil), current...)

	stale := stalestIndexes(updated, w.Batch)

	// bounded concurrency
	sem := make(chan struct{}, maxRefreshFetches)
	type result struct {
		idx     int
		article model.Article
		err     error
	}
	done := make(chan result, len(stale))
	for _, idx := range stale {
		idx := idx
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			ictx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			fresh, err := w.Fetcher.Fetch(ictx, updated[idx].URL)
			done <- result{idx: idx, article: fresh, err: err}
		}()
	}

	refreshed := 0
	for range stale {
		res := <-done
		if res.err != nil {
			slog.Warn("article refresh failed", "url", updated[res.idx].URL, "error", res.err)
			continue
		}
		article := updated[res.idx]
		article.Title = res.article.Title
		article.Content = res.article.Content
		article.FetchedAt = res.article.FetchedAt
		updated[res.idx] = article
		refreshed++
	}
	if refreshed > 0 {
		w.Store.Replace(updated)
	}
	slog.Info("article refresh pass complete", "candidates", len(stale), "refreshed", refreshed)
}

// stalestIndexes returns the indexes of the n articles with the oldest
// known content, judged by their last fetch or scrape time. Articles with
// no parsable timestamp sort first.
func stalestIndexes(articles []model.Article, n int) []int {
	idx := make([]int, len(articles))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return lastKnown(articles[idx[a]]).Before(lastKnown(articles[idx[b]]))
	})
	if n > len(idx) {
		n = len(idx)
	}
	return idx[:n]
}

func lastKnown(a model.Article) time.Time {
	var latest time.Time
	for _, stamp := range []string{a.ScrapedAt, a.FetchedAt} {
		if stamp == "" {
			continue
		}
		if t, err := time.Parse(articleTimeLayout, stamp); err == nil && t.After(latest) {
			latest = t
		}
	}
	return latest
}
