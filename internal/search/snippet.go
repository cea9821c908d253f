package search

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultSnippetLength is the target snippet size in bytes, before the
	// truncation markers.
	DefaultSnippetLength = 300

	// snippetContextBefore is how far the window starts before the first
	// matched keyword, so the match lands with some leading context.
	snippetContextBefore = 100

	// Snippet keywords use a stricter length floor than the scorer and no
	// stop-word filter. Independent from scoreMinKeywordLen.
	snippetMinKeywordLen = 3
)

// Snippet extracts an excerpt of content around the earliest occurrence of
// any query keyword. When no keyword matches, it falls back to the start of
// the content. Truncated edges are marked with "...".
func Snippet(query, content string, length int) string {
	if length <= 0 {
		length = DefaultSnippetLength
	}

	contentLower := strings.ToLower(content)
	earliest := -1
	for _, w := range wordPattern.FindAllString(strings.ToLower(query), -1) {
		if len(w) <= snippetMinKeywordLen {
			continue
		}
		if pos := strings.Index(contentLower, w); pos >= 0 && (earliest < 0 || pos < earliest) {
			earliest = pos
		}
	}

	if earliest < 0 {
		if len(content) <= length {
			return content + "..."
		}
		return content[:runeBoundaryBefore(content, length)] + "..."
	}

	start := earliest - snippetContextBefore
	if start < 0 {
		start = 0
	}
	start = runeBoundaryBefore(content, start)
	end := start + length
	if end > len(content) {
		end = len(content)
	}
	end = runeBoundaryBefore(content, end)

	snippet := content[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet += "..."
	}
	return strings.TrimSpace(snippet)
}

// runeBoundaryBefore moves a byte offset back to the nearest rune start so
// slicing never splits a multi-byte character.
func runeBoundaryBefore(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
