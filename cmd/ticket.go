package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/ai"
	"github.com/pk527236/ai-support-assistant/internal/events"
	"github.com/pk527236/ai-support-assistant/internal/redisclient"
	"github.com/pk527236/ai-support-assistant/internal/scrape"
	"github.com/pk527236/ai-support-assistant/internal/search"
	"github.com/pk527236/ai-support-assistant/internal/storage"
	"github.com/pk527236/ai-support-assistant/internal/triage"
	"github.com/pk527236/ai-support-assistant/internal/vectorstore"
	"github.com/pk527236/ai-support-assistant/internal/zendesk"

	"github.com/spf13/cobra"
)

var ticketRecent int

// ticketCmd runs the full triage workflow for one ticket and prints the
// report as JSON. With --recent it lists previously handled tickets
// instead.
var ticketCmd = &cobra.Command{
	Use:   "ticket [text]",
	Short: "Triage a support ticket from the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		if ticketRecent > 0 {
			if cfg.Redis.Addr == "" {
				return fmt.Errorf("redis.addr not set: recent tickets need the ticket store")
			}
			rdb := redisclient.New(cfg.Redis)
			defer rdb.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			reports, err := storage.NewRedisStore(rdb).RecentTickets(ctx, ticketRecent)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tickets handled yet.")
				return nil
			}
			for _, r := range reports {
				severity := "redirected"
				if r.Classification != nil {
					severity = string(r.Classification.Severity)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-10s  %s\n",
					r.CreatedAt.Format("2006-01-02 15:04"), r.TicketID, severity, firstLine(r.Text, 70))
			}
			return nil
		}

		ticketText := strings.TrimSpace(strings.Join(args, " "))
		if ticketText == "" {
			return fmt.Errorf("no ticket text given")
		}
		if cfg.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key not set: tickets cannot be processed")
		}

		store, err := search.OpenStore(cfg.Search.SnapshotPath)
		if err != nil {
			return err
		}
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
		searcher := search.NewSearcher(store, zendesk.NewFetcher(client, renderer), cfg.App.Product)

		oc := ai.NewOpenAI(ai.Config{
			APIKey:         cfg.OpenAI.APIKey,
			Model:          cfg.OpenAI.Model,
			BaseURL:        cfg.OpenAI.BaseURL,
			EmbeddingModel: cfg.OpenAI.EmbeddingModel,
			Product:        cfg.App.Product,
		})

		var ticketStore triage.TicketStore
		if cfg.Redis.Addr != "" {
			rdb := redisclient.New(cfg.Redis)
			defer rdb.Close()
			ticketStore = storage.NewRedisStore(rdb)
		}

		var vectors triage.VectorSearcher
		if cfg.Vector.DSN != "" {
			openCtx, cancelOpen := context.WithTimeout(context.Background(), 10*time.Second)
			db, err := vectorstore.Open(openCtx, cfg.Vector.DSN)
			cancelOpen()
			if err != nil {
				return err
			}
			defer db.Close()
			vectors = vectorstore.New(db, oc, cfg.Vector.Dimensions, cfg.Vector.TopK)
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
			Assistant:       oc,
			Keyword:         searcher,
			Vectors:         vectors,
			Store:           ticketStore,
			Events:          publisher,
			Policy:          policy,
			Product:         cfg.App.Product,
			ContextArticles: cfg.Search.ContextArticles,
			FetchFresh:      cfg.Search.FetchFresh,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		report, err := svc.HandleTicket(ctx, ticketText)
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ticketCmd)
	ticketCmd.Flags().IntVarP(&ticketRecent, "recent", "r", 0, "list the N most recently handled tickets instead")
}

// firstLine flattens text to a single truncated line for list output.
func firstLine(text string, n int) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	r := []rune(line)
	if len(r) > n {
		return string(r[:n]) + "..."
	}
	return line
}
