package search

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSnippetWindowAroundMatch(t *testing.T) {
	content := strings.Repeat("a", 450) + "gateway installation details follow here. " + strings.Repeat("b", 300)
	got := Snippet("gateway installation", content, 300)

	if !strings.HasPrefix(got, "...") {
		t.Errorf("snippet should carry a leading marker, got %q", got[:20])
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("snippet should carry a trailing marker, got %q", got[len(got)-20:])
	}
	body := strings.TrimSuffix(strings.TrimPrefix(got, "..."), "...")
	if len(body) != 300 {
		t.Errorf("snippet body length = %d, want 300", len(body))
	}
	if !strings.Contains(got, "gateway installation") {
		t.Errorf("snippet does not contain the match: %q", got)
	}
	// Window starts 100 characters before the match at 450.
	if want := strings.Repeat("a", 100) + "gateway"; !strings.HasPrefix(body, want[:50]) {
		t.Errorf("snippet window misplaced: %q", body[:50])
	}
}

func TestSnippetNoMatchFallsBackToStart(t *testing.T) {
	long := strings.Repeat("lorem ipsum ", 60) // > 300 bytes
	got := Snippet("qqqq wwww", long, 300)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("fallback snippet should end with marker, got %q", got)
	}
	if !strings.HasPrefix(got, "lorem ipsum") {
		t.Errorf("fallback snippet should start at the beginning, got %q", got[:20])
	}

	short := "short content"
	if got := Snippet("qqqq", short, 300); got != short+"..." {
		t.Errorf("short fallback = %q, want %q", got, short+"...")
	}
}

func TestSnippetIgnoresShortKeywords(t *testing.T) {
	content := strings.Repeat("x", 400) + " abc appears late"
	// "abc" is too short to anchor the snippet, so the fallback window wins.
	got := Snippet("abc", content, 300)
	if !strings.HasPrefix(got, "xxx") {
		t.Errorf("three-letter keyword should be ignored, got %q", got[:20])
	}
	// Four letters is long enough.
	got = Snippet("appears", content, 300)
	if !strings.Contains(got, "appears late") {
		t.Errorf("keyword match missing from snippet: %q", got)
	}
}

func TestSnippetKeepsRunesIntact(t *testing.T) {
	content := strings.Repeat("é", 200) + " gateway configuration"
	got := Snippet("gateway", content, 300)
	if !utf8.ValidString(got) {
		t.Fatalf("snippet split a rune: %q", got)
	}
	if !strings.Contains(got, "gateway") {
		t.Errorf("snippet missing the match: %q", got)
	}
}

func TestSnippetDefaultLength(t *testing.T) {
	content := strings.Repeat("c", 1000)
	got := Snippet("qqqq", content, 0)
	if len(got) != DefaultSnippetLength+3 {
		t.Errorf("default-length snippet = %d bytes, want %d", len(got), DefaultSnippetLength+3)
	}
}
