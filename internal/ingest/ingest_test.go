package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pk527236/ai-support-assistant/internal/vectorstore"
)

type fakeChunkStore struct {
	deleted []string
	added   map[string][]vectorstore.Document
}

func (f *fakeChunkStore) DeleteSource(ctx context.Context, source string) error {
	f.deleted = append(f.deleted, source)
	return nil
}

func (f *fakeChunkStore) Add(ctx context.Context, docs []vectorstore.Document) error {
	if f.added == nil {
		f.added = make(map[string][]vectorstore.Document)
	}
	for _, d := range docs {
		f.added[d.Source] = append(f.added[d.Source], d)
	}
	return nil
}

func TestIngestorReplacesPerSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "alpha.txt"), "Alpha doc body")
	writeFile(t, filepath.Join(dir, "beta.md"), "Beta body")

	store := &fakeChunkStore{}
	ing := New(store, NewSplitter(1000, 200))

	docs, chunks, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if docs != 2 || chunks != 2 {
		t.Fatalf("docs=%d chunks=%d, want 2/2", docs, chunks)
	}
	if len(store.deleted) != 2 {
		t.Fatalf("deleted = %v", store.deleted)
	}
	got := store.added["alpha.txt"]
	if len(got) != 1 {
		t.Fatalf("alpha chunks = %+v", got)
	}
	if got[0].Ord != 0 || got[0].Content != "Alpha doc body" {
		t.Errorf("chunk = %+v", got[0])
	}
}

func TestIngestorOrdinalsFollowChunkOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "long.txt"), "first part. "+pad(900)+"\n\nsecond part. "+pad(900))

	store := &fakeChunkStore{}
	ing := New(store, NewSplitter(1000, 100))

	if _, _, err := ing.Run(context.Background(), dir); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := store.added["long.txt"]
	if len(got) < 2 {
		t.Fatalf("chunks = %d, want several", len(got))
	}
	for i, d := range got {
		if d.Ord != i {
			t.Errorf("chunk %d has ord %d", i, d.Ord)
		}
	}
}

func pad(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'z'
	}
	return string(b)
}

func TestIngestorEmptyDirIsNoop(t *testing.T) {
	store := &fakeChunkStore{}
	ing := New(store, nil)

	docs, chunks, err := ing.Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if docs != 0 || chunks != 0 || len(store.deleted) != 0 {
		t.Errorf("docs=%d chunks=%d deleted=%v", docs, chunks, store.deleted)
	}
}
