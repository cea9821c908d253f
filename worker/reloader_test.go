package worker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/model"
	"github.com/pk527236/ai-support-assistant/internal/search"
)

func writeSnapshot(t *testing.T, path string, articles []model.Article, mod time.Time) {
	t.Helper()
	b, err := json.Marshal(articles)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotReloaderPicksUpNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	store := search.NewStore(nil)
	w := &SnapshotReloader{Store: store, Path: path}

	// No file yet: nothing to do.
	w.runOnce()
	if store.Len() != 0 {
		t.Fatalf("store len = %d before any snapshot", store.Len())
	}

	writeSnapshot(t, path, []model.Article{{Title: "One", URL: "https://kb/1"}}, base)
	w.runOnce()
	if store.Len() != 1 {
		t.Fatalf("store len = %d after first snapshot", store.Len())
	}

	writeSnapshot(t, path, []model.Article{
		{Title: "One", URL: "https://kb/1"},
		{Title: "Two", URL: "https://kb/2"},
	}, base.Add(time.Hour))
	w.runOnce()
	if store.Len() != 2 {
		t.Fatalf("store len = %d after updated snapshot", store.Len())
	}
}

func TestSnapshotReloaderSkipsUnchangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	mod := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	store := search.NewStore(nil)
	w := &SnapshotReloader{Store: store, Path: path}

	writeSnapshot(t, path, []model.Article{{Title: "One", URL: "https://kb/1"}}, mod)
	w.runOnce()

	// Simulate content refreshed by another worker; an unchanged file must
	// not clobber it.
	sentinel := []model.Article{{Title: "Refreshed", URL: "https://kb/1"}}
	store.Replace(sentinel)
	w.runOnce()

	got, ok := store.ByURL("https://kb/1")
	if !ok || got.Title != "Refreshed" {
		t.Fatalf("article = %+v, want the refreshed copy kept", got)
	}
}
