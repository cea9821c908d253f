package zendesk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

const (
	snapshotFile      = "zendesk_articles.json"
	knowledgeBaseFile = "zendesk_knowledge_base.txt"
	articlesSubdir    = "zendesk_articles"
	summaryFile       = "scraping_summary.txt"
)

var unsafeTitleChars = regexp.MustCompile(`[^\w\s-]`)

// SaveSnapshot writes the scraped articles in every format downstream
// consumers read: the JSON snapshot the search store loads, one combined
// text file, individual per-article files, and a human-readable summary.
func SaveSnapshot(dir string, articles []model.Article) error {
	if len(articles) == 0 {
		return fmt.Errorf("zendesk: no articles to save")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, snapshotFile), b, 0o644); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, knowledgeBaseFile), knowledgeBaseText(articles), 0o644); err != nil {
		return err
	}

	articlesDir := filepath.Join(dir, articlesSubdir)
	if err := os.MkdirAll(articlesDir, 0o755); err != nil {
		return err
	}
	rule := strings.Repeat("=", 80)
	for i, article := range articles {
		name := fmt.Sprintf("%03d_%s.txt", i+1, safeTitle(article.Title))
		body := fmt.Sprintf("Title: %s\nURL: %s\n%s\n\n%s", article.Title, article.URL, rule, article.Content)
		if err := os.WriteFile(filepath.Join(articlesDir, name), []byte(body), 0o644); err != nil {
			return err
		}
	}

	return os.WriteFile(filepath.Join(dir, summaryFile), summaryText(articles), 0o644)
}

func knowledgeBaseText(articles []model.Article) []byte {
	rule := strings.Repeat("=", 80)
	divider := strings.Repeat("-", 80)
	var sb strings.Builder
	for _, article := range articles {
		fmt.Fprintf(&sb, "%s\nTITLE: %s\nURL: %s\n%s\n\n", rule, article.Title, article.URL, rule)
		fmt.Fprintf(&sb, "%s\n\n%s\n\n", article.Content, divider)
	}
	return []byte(sb.String())
}

func summaryText(articles []model.Article) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Zendesk Scraping Summary\n%s\n\n", strings.Repeat("=", 80))
	fmt.Fprintf(&sb, "Scraped at: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Total articles: %d\n\nArticles:\n", len(articles))
	for i, article := range articles {
		fmt.Fprintf(&sb, "%d. %s\n   URL: %s\n\n", i+1, article.Title, article.URL)
	}
	return []byte(sb.String())
}

// safeTitle makes a title usable as a filename fragment.
func safeTitle(title string) string {
	clean := unsafeTitleChars.ReplaceAllString(title, "")
	runes := []rune(clean)
	if len(runes) > 50 {
		clean = string(runes[:50])
	}
	return clean
}
