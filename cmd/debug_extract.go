package cmd

import (
	"fmt"
	"os"

	"github.com/pk527236/ai-support-assistant/internal/zendesk"

	"github.com/spf13/cobra"
)

var debugExtractCmd = &cobra.Command{
	Use:   "debug-extract <html_path>",
	Short: "Debug: extract article title and text from a saved help-center page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		title, content, err := zendesk.ExtractArticle(page)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "title: %s\n", title)
		fmt.Fprintf(os.Stdout, "content bytes: %d\n", len(content))
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugExtractCmd)
}
