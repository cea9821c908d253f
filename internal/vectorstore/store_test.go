package vectorstore

import (
	"strings"
	"testing"
)

func TestFormatMatches(t *testing.T) {
	got := formatMatches([]Match{
		{Source: "guide.txt", Content: "Configure the source connection first.", Score: 0.91},
		{Source: "faq.txt", Content: "Agents are created from the sources page.", Score: 0.84},
	})

	if !strings.HasPrefix(got, "\n\nRELATED DOCUMENTATION:\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "Document 1:\nConfigure the source connection first.\n\n") {
		t.Errorf("document 1 malformed: %q", got)
	}
	if !strings.Contains(got, "Document 2:\nAgents are created from the sources page.\n\n") {
		t.Errorf("document 2 malformed: %q", got)
	}
}

func TestFormatMatchesEmpty(t *testing.T) {
	if got := formatMatches(nil); got != "" {
		t.Errorf("formatMatches(nil) = %q, want empty", got)
	}
}

func TestFormatMatchesTruncatesLongDocuments(t *testing.T) {
	long := strings.Repeat("a", 2000)
	got := formatMatches([]Match{{Content: long}})

	want := "Document 1:\n" + strings.Repeat("a", docContextChars) + "\n\n"
	if !strings.Contains(got, want) {
		t.Error("document not truncated to the context cap")
	}
	if strings.Contains(got, strings.Repeat("a", docContextChars+1)) {
		t.Error("document exceeds the context cap")
	}
}

func TestHeadRunesKeepsMultibyteIntact(t *testing.T) {
	s := strings.Repeat("é", 10)
	got := headRunes(s, 4)
	if got != "éééé" {
		t.Errorf("headRunes = %q", got)
	}
}
