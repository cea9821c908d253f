package cmd

import (
	"fmt"
	"strings"

	"github.com/pk527236/ai-support-assistant/internal/search"

	"github.com/spf13/cobra"
)

var searchMax int

// searchCmd runs a keyword query against the article snapshot, useful for
// checking what the assistant would ground its answers on.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the scraped knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		query := strings.Join(args, " ")

		store, err := search.OpenStore(cfg.Search.SnapshotPath)
		if err != nil {
			return err
		}
		if store.Len() == 0 {
			return fmt.Errorf("no articles in %s, run scrape first", cfg.Search.SnapshotPath)
		}

		searcher := search.NewSearcher(store, nil, cfg.App.Product)
		results := searcher.Search(query, searchMax)
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching articles.")
			return nil
		}
		for i, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s (score %.2f)\n", i+1, r.Title, r.Score)
			fmt.Fprintf(cmd.OutOrStdout(), "   %s\n", r.URL)
			if r.Snippet != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "   %s\n", r.Snippet)
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchMax, "max", "n", 0, "maximum results (default 5)")
}
