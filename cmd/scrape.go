package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/scrape"
	"github.com/pk527236/ai-support-assistant/internal/zendesk"

	"github.com/spf13/cobra"
)

// scrapeCmd crawls the help center and writes the snapshot files the
// keyword search and the ingester read.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape help-center articles into the local snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		timeout, err := time.ParseDuration(cfg.Zendesk.Timeout)
		if err != nil {
			return fmt.Errorf("invalid zendesk.timeout: %w", err)
		}
		delay, err := time.ParseDuration(cfg.Zendesk.RequestDelay)
		if err != nil {
			return fmt.Errorf("invalid zendesk.request_delay: %w", err)
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
		scraper := zendesk.NewScraper(client, renderer, zendesk.ScraperConfig{
			BaseURL:      cfg.Zendesk.BaseURL,
			RequestDelay: delay,
		})

		articles, err := scraper.ScrapeAll(context.Background())
		if err != nil {
			return err
		}
		if err := zendesk.SaveSnapshot(cfg.Zendesk.OutputDir, articles); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scraped %d articles into %s\n", len(articles), cfg.Zendesk.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
