package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

var (
	// ErrSnapshotMissing reports that the article snapshot file does not exist.
	ErrSnapshotMissing = errors.New("article snapshot not found")
	// ErrSnapshotMalformed reports a snapshot that exists but cannot be decoded.
	ErrSnapshotMalformed = errors.New("article snapshot malformed")
)

// LoadSnapshot reads a scraped article snapshot (a JSON array of articles)
// from disk.
func LoadSnapshot(path string) ([]model.Article, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotMissing, path)
		}
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var articles []model.Article
	if err := json.Unmarshal(b, &articles); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotMalformed, err)
	}
	return articles, nil
}

// Store holds the loaded knowledge-base articles. The article set is
// read-only between reloads; Replace swaps the whole slice so concurrent
// readers never observe a partially updated set.
type Store struct {
	mu       sync.RWMutex
	articles []model.Article
}

// NewStore creates a store over an already-loaded article set. A nil or
// empty set is valid and means "no knowledge base": searches return no
// results rather than failing.
func NewStore(articles []model.Article) *Store {
	return &Store{articles: articles}
}

// OpenStore loads the snapshot at path into a new store. When the snapshot
// is missing, it returns an empty store and no error; a present but
// malformed snapshot is still an error.
func OpenStore(path string) (*Store, error) {
	articles, err := LoadSnapshot(path)
	if err != nil {
		if errors.Is(err, ErrSnapshotMissing) {
			slog.Warn("article snapshot not found, starting with empty knowledge base", "path", path)
			return NewStore(nil), nil
		}
		return nil, err
	}
	slog.Info("loaded article snapshot", "path", path, "articles", len(articles))
	return NewStore(articles), nil
}

// Articles returns the current article set. The returned slice must be
// treated as read-only.
func (s *Store) Articles() []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.articles
}

// Len reports how many articles are loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}

// Replace swaps in a new article set.
func (s *Store) Replace(articles []model.Article) {
	s.mu.Lock()
	s.articles = articles
	s.mu.Unlock()
}

// ByURL returns the cached article with the given URL.
func (s *Store) ByURL(url string) (model.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.articles {
		if a.URL == url {
			return a, true
		}
	}
	return model.Article{}, false
}
