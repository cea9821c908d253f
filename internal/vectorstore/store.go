package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/pk527236/ai-support-assistant/internal/ai"
)

const (
	// DefaultTopK is how many documents a context lookup includes.
	DefaultTopK = 3
	// docContextChars caps how much of each document goes into the
	// context block handed to the model.
	docContextChars = 800
)

// Document is one chunk of ingested documentation. Source plus Ord
// identify the chunk, so re-ingesting a source overwrites in place.
type Document struct {
	Source  string
	Ord     int
	Content string
}

// Match is a retrieved document with its cosine similarity to the query.
type Match struct {
	Source  string
	Content string
	Score   float64
}

// Store keeps document embeddings in Postgres and retrieves them by
// semantic similarity.
type Store struct {
	db       *sql.DB
	embedder ai.Embedder
	dims     int
	topK     int
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("vectorstore: ping: %w", err)
	}
	return db, nil
}

func New(db *sql.DB, embedder ai.Embedder, dims, topK int) *Store {
	if dims <= 0 {
		dims = 1536
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Store{db: db, embedder: embedder, dims: dims, topK: topK}
}

// Add embeds the documents and upserts them. Chunks keep their (source,
// ord) identity, so repeated ingestion runs converge instead of piling up.
func (s *Store) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	embeddings, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("vectorstore: embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("vectorstore: embedding count %d != document count %d", len(embeddings), len(docs))
	}

	for i, d := range docs {
		if len(embeddings[i]) != s.dims {
			return fmt.Errorf("vectorstore: embedding for %s#%d has %d dimensions, want %d", d.Source, d.Ord, len(embeddings[i]), s.dims)
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO documents (source, ord, content, embedding)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (source, ord) DO UPDATE
			SET content = EXCLUDED.content, embedding = EXCLUDED.embedding, created_at = now()`,
			d.Source, d.Ord, d.Content, pgvector.NewVector(embeddings[i]),
		)
		if err != nil {
			return fmt.Errorf("vectorstore: insert %s#%d: %w", d.Source, d.Ord, err)
		}
	}
	slog.Info("documents stored", "count", len(docs))
	return nil
}

// DeleteSource removes every chunk for one source, typically right before
// it is re-ingested with a different chunk count.
func (s *Store) DeleteSource(ctx context.Context, source string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE source = $1`, source)
	if err != nil {
		return fmt.Errorf("vectorstore: delete source %s: %w", source, err)
	}
	return nil
}

// Count returns how many document chunks are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Query returns the k most similar documents to the query text.
func (s *Store) Query(ctx context.Context, query string, k int) ([]Match, error) {
	if k <= 0 {
		k = s.topK
	}
	embeddings, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: embed query: %w", err)
	}
	vec := pgvector.NewVector(embeddings[0])

	rows, err := s.db.QueryContext(ctx, `
		SELECT source, content, 1 - (embedding <=> $1) AS score
		FROM documents
		ORDER BY embedding <=> $1
		LIMIT $2`,
		vec, k,
	)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: query: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Source, &m.Content, &m.Score); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Context retrieves the top documents for the query and formats them as a
// block the assistant can ground its answer on. No matches yields "".
func (s *Store) Context(ctx context.Context, query string) (string, error) {
	matches, err := s.Query(ctx, query, s.topK)
	if err != nil {
		return "", err
	}
	return formatMatches(matches), nil
}

func formatMatches(matches []Match) string {
	if len(matches) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nRELATED DOCUMENTATION:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "Document %d:\n%s\n\n", i+1, headRunes(m.Content, docContextChars))
	}
	return b.String()
}

func headRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
