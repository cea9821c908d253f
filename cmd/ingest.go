package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/ai"
	"github.com/pk527236/ai-support-assistant/internal/ingest"
	"github.com/pk527236/ai-support-assistant/internal/vectorstore"

	"github.com/spf13/cobra"
)

// ingestCmd chunks and embeds the local document directory into the
// vector store backing semantic search.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Chunk and embed local documents into the vector store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		if cfg.Vector.DSN == "" {
			return fmt.Errorf("vector.dsn not set: ingestion needs the document store")
		}
		if cfg.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key not set: ingestion needs the embedding API")
		}

		embedder := ai.NewOpenAI(ai.Config{
			APIKey:         cfg.OpenAI.APIKey,
			Model:          cfg.OpenAI.Model,
			BaseURL:        cfg.OpenAI.BaseURL,
			EmbeddingModel: cfg.OpenAI.EmbeddingModel,
			Product:        cfg.App.Product,
		})

		openCtx, cancelOpen := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := vectorstore.Open(openCtx, cfg.Vector.DSN)
		cancelOpen()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := vectorstore.RunMigrations(db); err != nil {
			return err
		}
		store := vectorstore.New(db, embedder, cfg.Vector.Dimensions, cfg.Vector.TopK)

		splitter := ingest.NewSplitter(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
		docs, chunks, err := ingest.New(store, splitter).Run(context.Background(), cfg.Ingest.DataDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d documents (%d chunks) from %s\n", docs, chunks, cfg.Ingest.DataDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
