package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pk527236/ai-support-assistant/internal/vectorstore"
)

// ChunkStore is the slice of the vector store ingestion writes to.
type ChunkStore interface {
	DeleteSource(ctx context.Context, source string) error
	Add(ctx context.Context, docs []vectorstore.Document) error
}

// Ingestor loads documents, chunks them and replaces their chunks in the
// vector store, one source file at a time.
type Ingestor struct {
	store    ChunkStore
	splitter *Splitter
}

func New(store ChunkStore, splitter *Splitter) *Ingestor {
	if splitter == nil {
		splitter = NewSplitter(0, 0)
	}
	return &Ingestor{store: store, splitter: splitter}
}

// Run ingests every supported document under dir and reports how many
// documents and chunks were written.
func (ing *Ingestor) Run(ctx context.Context, dir string) (int, int, error) {
	docs, err := LoadDirectory(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("ingest: load %s: %w", dir, err)
	}
	if len(docs) == 0 {
		slog.Warn("no documents found", "dir", dir)
		return 0, 0, nil
	}

	byType := make(map[string]int)
	for _, doc := range docs {
		byType[doc.Type]++
	}
	slog.Info("documents loaded", "count", len(docs), "breakdown", byType)

	totalChunks := 0
	for _, doc := range docs {
		chunks := ing.splitter.Split(doc.Content)
		if err := ing.store.DeleteSource(ctx, doc.Source); err != nil {
			return len(docs), totalChunks, fmt.Errorf("ingest: clear %s: %w", doc.Source, err)
		}
		records := make([]vectorstore.Document, 0, len(chunks))
		for i, chunk := range chunks {
			records = append(records, vectorstore.Document{
				Source:  doc.Source,
				Ord:     i,
				Content: chunk,
			})
		}
		if err := ing.store.Add(ctx, records); err != nil {
			return len(docs), totalChunks, fmt.Errorf("ingest: index %s: %w", doc.Source, err)
		}
		totalChunks += len(chunks)
		slog.Info("document indexed", "source", doc.Source, "type", doc.Type, "chunks", len(chunks))
	}
	return len(docs), totalChunks, nil
}
