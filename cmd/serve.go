package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/ai"
	"github.com/pk527236/ai-support-assistant/internal/events"
	"github.com/pk527236/ai-support-assistant/internal/httpapi"
	"github.com/pk527236/ai-support-assistant/internal/redisclient"
	"github.com/pk527236/ai-support-assistant/internal/scrape"
	"github.com/pk527236/ai-support-assistant/internal/search"
	"github.com/pk527236/ai-support-assistant/internal/storage"
	"github.com/pk527236/ai-support-assistant/internal/triage"
	"github.com/pk527236/ai-support-assistant/internal/vectorstore"
	"github.com/pk527236/ai-support-assistant/internal/zendesk"
	"github.com/pk527236/ai-support-assistant/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		// Keyword article store. A missing snapshot is fine; the reloader
		// picks it up once a scrape run writes one.
		store, err := search.OpenStore(cfg.Search.SnapshotPath)
		if err != nil {
			return err
		}

		// Zendesk client for fresh article fetches and background refresh.
		timeout, err := time.ParseDuration(cfg.Zendesk.Timeout)
		if err != nil {
			return fmt.Errorf("invalid zendesk.timeout: %w", err)
		}
		client := zendesk.NewClient(nil, zendesk.ClientConfig{
			UserAgent:    cfg.Zendesk.UserAgent,
			IgnoreRobots: cfg.Zendesk.IgnoreRobots,
			Timeout:      timeout,
		})
		var renderer zendesk.Renderer
		if cfg.Cloudflare.APIToken != "" {
			renderer = scrape.NewRenderer(cfg.Cloudflare.AccountID, cfg.Cloudflare.APIToken, 0)
		}
		fetcher := zendesk.NewFetcher(client, renderer)
		searcher := search.NewSearcher(store, fetcher, cfg.App.Product)

		var assistant ai.Assistant
		var embedder ai.Embedder
		if cfg.OpenAI.APIKey != "" {
			oc := ai.NewOpenAI(ai.Config{
				APIKey:         cfg.OpenAI.APIKey,
				Model:          cfg.OpenAI.Model,
				BaseURL:        cfg.OpenAI.BaseURL,
				EmbeddingModel: cfg.OpenAI.EmbeddingModel,
				Product:        cfg.App.Product,
			})
			assistant = oc
			embedder = oc
		} else {
			slog.Warn("openai api_key not set, tickets cannot be processed")
		}

		var ticketStore triage.TicketStore
		if cfg.Redis.Addr != "" {
			rdb := redisclient.New(cfg.Redis)
			defer rdb.Close()
			ticketStore = storage.NewRedisStore(rdb)
		}

		var vectors triage.VectorSearcher
		var documents httpapi.DocumentCounter
		if cfg.Vector.DSN != "" {
			if embedder == nil {
				slog.Warn("vector store configured but openai api_key not set, semantic search disabled")
			} else {
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
				vs := vectorstore.New(db, embedder, cfg.Vector.Dimensions, cfg.Vector.TopK)
				vectors = vs
				documents = vs
			}
		}

		var publisher triage.EventPublisher
		if len(cfg.Kafka.Brokers) > 0 {
			pub := events.NewPublisher(cfg.Kafka)
			defer pub.Close()
			publisher = pub
		}

		policy, err := triage.LoadPolicy(cfg.Triage.PolicyPath)
		if err != nil {
			return err
		}

		svc := triage.NewService(triage.Options{
			Assistant:       assistant,
			Keyword:         searcher,
			Vectors:         vectors,
			Store:           ticketStore,
			Events:          publisher,
			Policy:          policy,
			Product:         cfg.App.Product,
			ContextArticles: cfg.Search.ContextArticles,
			FetchFresh:      cfg.Search.FetchFresh,
		})

		srv := httpapi.NewServer(httpapi.Config{
			Addr:           cfg.Server.Addr,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Product:        cfg.App.Product,
		}, svc, store, documents)

		// Background workers: snapshot reload always, article refresh only
		// when an interval is configured.
		reload, err := time.ParseDuration(cfg.Search.ReloadInterval)
		if err != nil {
			return fmt.Errorf("invalid search.reload_interval: %w", err)
		}
		ws := []worker.Worker{
			&worker.SnapshotReloader{
				Store:    store,
				Path:     cfg.Search.SnapshotPath,
				Interval: reload,
			},
		}
		if cfg.Zendesk.RefreshInterval != "" {
			refresh, err := time.ParseDuration(cfg.Zendesk.RefreshInterval)
			if err != nil {
				return fmt.Errorf("invalid zendesk.refresh_interval: %w", err)
			}
			if refresh > 0 {
				slog.Info("starting article refresher", "interval", refresh, "batch", cfg.Zendesk.RefreshBatch)
				ws = append(ws, &worker.ArticleRefresher{
					Store:    store,
					Fetcher:  fetcher,
					Interval: refresh,
					Batch:    cfg.Zendesk.RefreshBatch,
				})
			}
		}
		mgr := worker.NewManager(ws...)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http api failed", "err", err)
				cancel()
			}
		}()

		err = mgr.Start(ctx)

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		if serr := srv.Stop(shutdownCtx); serr != nil {
			slog.Error("http api shutdown error", "err", serr)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
