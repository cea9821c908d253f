package worker

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/search"
)

// SnapshotReloader watches the article snapshot file and swaps it into
// the keyword store whenever the scraper writes a new one.
type SnapshotReloader struct {
	Store    *search.Store
	Path     string
	Interval time.Duration

	lastMod time.Time
}

func (w *SnapshotReloader) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Minute
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()

	// initial run
	w.runOnce()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce()
		}
	}
}

func (w *SnapshotReloader) runOnce() {
	info, err := os.Stat(w.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("snapshot stat failed", "path", w.Path, "error", err)
		}
		return
	}
	if !info.ModTime().After(w.lastMod) {
		return
	}

	articles, err := search.LoadSnapshot(w.Path)
	if err != nil {
		slog.Error("snapshot reload failed", "path", w.Path, "error", err)
		return
	}
	w.Store.Replace(articles)
	w.lastMod = info.ModTime()
	slog.Info("article snapshot reloaded", "path", w.Path, "articles", len(articles))
}
