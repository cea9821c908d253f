package search

import (
	"regexp"
	"strings"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

// Relevance weights. The total is clamped to 1.0, so an article matched on
// every axis still scores exactly 1.
const (
	titleCoverageWeight   = 0.5
	contentCoverageWeight = 0.3
	titlePhraseBonus      = 0.3
	contentPhraseBonus    = 0.15
	adjacencyBonus        = 0.1
	adjacencyWindow       = 100

	// Query tokens at or below this length carry no scoring signal.
	// Independent from snippetMinKeywordLen; the two are tuned separately.
	scoreMinKeywordLen = 2
)

var wordPattern = regexp.MustCompile(`\w+`)

var stopWords = map[string]struct{}{
	"how": {}, "can": {}, "the": {}, "what": {}, "when": {}, "where": {},
	"why": {}, "is": {}, "in": {}, "to": {}, "a": {}, "an": {}, "and": {}, "or": {},
}

// Keywords tokenizes a query into the lowercase keywords used for scoring,
// dropping short tokens and stop words. An empty result means the query
// cannot match anything.
func Keywords(query string) []string {
	words := wordPattern.FindAllString(strings.ToLower(query), -1)
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= scoreMinKeywordLen {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// Score computes how relevant an article is to a query, in [0, 1].
//
// The score sums four signals: the fraction of query keywords found in the
// title (weight 0.5), the fraction found in the body (weight 0.3), an
// exact-phrase bonus (+0.3 in the title, else +0.15 in the body), and a
// one-time adjacency bonus (+0.1) when a consecutive keyword pair occurs
// within a short distance in the body.
func Score(query string, article model.Article) float64 {
	keywords := Keywords(query)
	if len(keywords) == 0 {
		return 0
	}

	queryLower := strings.ToLower(query)
	titleLower := strings.ToLower(article.Title)
	contentLower := strings.ToLower(article.Content)

	var score float64

	titleMatches := 0
	contentMatches := 0
	for _, kw := range keywords {
		if strings.Contains(titleLower, kw) {
			titleMatches++
		}
		if strings.Contains(contentLower, kw) {
			contentMatches++
		}
	}
	score += float64(titleMatches) / float64(len(keywords)) * titleCoverageWeight
	score += float64(contentMatches) / float64(len(keywords)) * contentCoverageWeight

	if strings.Contains(titleLower, queryLower) {
		score += titlePhraseBonus
	} else if strings.Contains(contentLower, queryLower) {
		score += contentPhraseBonus
	}

	score += adjacencyScore(keywords, contentLower)

	if score > 1 {
		score = 1
	}
	return score
}

// adjacencyScore awards a single flat bonus when any consecutive keyword
// pair from the query occurs close together in the content. Only the first
// occurrence of each word is considered, and scanning stops at the first
// qualifying pair.
func adjacencyScore(keywords []string, contentLower string) float64 {
	for i := 0; i+1 < len(keywords); i++ {
		first := strings.Index(contentLower, keywords[i])
		if first < 0 {
			continue
		}
		// Distance from the first word's position to the next occurrence of
		// the second word at or after it.
		dist := strings.Index(contentLower[first:], keywords[i+1])
		if dist > 0 && dist < adjacencyWindow {
			return adjacencyBonus
		}
	}
	return 0
}
