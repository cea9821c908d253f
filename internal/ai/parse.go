package ai

import (
	"regexp"
	"strings"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

var (
	severityPattern  = regexp.MustCompile(`(?i)SEVERITY:\s*(S[123])`)
	typePattern      = regexp.MustCompile(`(?i)TYPE:\s*(BUG|ENHANCEMENT|QUESTION|REQUEST)`)
	reasoningPattern = regexp.MustCompile(`(?is)REASONING:\s*(.+?)(?:\n|$)`)
)

// parseClassification extracts the structured fields from a model response.
// Missing or unparseable fields fall back to the safest defaults.
func parseClassification(out string) model.Classification {
	c := model.Classification{
		Severity:  model.SeverityS3,
		Type:      model.TypeQuestion,
		Reasoning: "Standard classification",
	}
	if m := severityPattern.FindStringSubmatch(out); m != nil {
		c.Severity = model.Severity(strings.ToUpper(m[1]))
	}
	if m := typePattern.FindStringSubmatch(out); m != nil {
		c.Type = model.TicketType(strings.ToUpper(m[1]))
	}
	if m := reasoningPattern.FindStringSubmatch(out); m != nil {
		if r := strings.TrimSpace(m[1]); r != "" {
			c.Reasoning = r
		}
	}
	return c
}

// Models sometimes ignore the "no empathy" instruction and open with
// sympathetic filler. When that happens the explanation is cut down to its
// first sentence, which in practice holds the factual part.
var empathyPhrases = []string{
	"I understand",
	"I can imagine",
	"It must be",
	"I know",
	"must be frustrating",
	"must be difficult",
	"I appreciate",
	"Thank you for",
	"I'm sorry",
}

func scrubEmpathy(s string) string {
	lower := strings.ToLower(s)
	for _, phrase := range empathyPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			first, _, _ := strings.Cut(s, ".")
			return first + "."
		}
	}
	return s
}
