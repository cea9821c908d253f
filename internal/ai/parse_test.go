package ai

import (
	"testing"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

func TestParseClassification(t *testing.T) {
	out := "SEVERITY: S1\nTYPE: BUG\nREASONING: Application is completely down affecting production users"
	c := parseClassification(out)
	if c.Severity != model.SeverityS1 {
		t.Errorf("severity = %q, want S1", c.Severity)
	}
	if c.Type != model.TypeBug {
		t.Errorf("type = %q, want BUG", c.Type)
	}
	if c.Reasoning != "Application is completely down affecting production users" {
		t.Errorf("reasoning = %q", c.Reasoning)
	}
}

func TestParseClassificationLowercase(t *testing.T) {
	c := parseClassification("severity: s2\ntype: enhancement\nreasoning: wants a new export format")
	if c.Severity != model.SeverityS2 {
		t.Errorf("severity = %q, want S2", c.Severity)
	}
	if c.Type != model.TypeEnhancement {
		t.Errorf("type = %q, want ENHANCEMENT", c.Type)
	}
}

func TestParseClassificationDefaults(t *testing.T) {
	c := parseClassification("the model rambled and produced nothing useful")
	if c.Severity != model.SeverityS3 {
		t.Errorf("severity = %q, want default S3", c.Severity)
	}
	if c.Type != model.TypeQuestion {
		t.Errorf("type = %q, want default QUESTION", c.Type)
	}
	if c.Reasoning != "Standard classification" {
		t.Errorf("reasoning = %q, want default", c.Reasoning)
	}
}

func TestParseClassificationReasoningFirstLine(t *testing.T) {
	out := "SEVERITY: S3\nTYPE: QUESTION\nREASONING: user asks how to configure SLAs\nextra trailing line"
	c := parseClassification(out)
	if c.Reasoning != "user asks how to configure SLAs" {
		t.Errorf("reasoning = %q, want first line only", c.Reasoning)
	}
}

func TestScrubEmpathyTruncates(t *testing.T) {
	in := "I understand this is frustrating. The customer requests account decommissioning. More detail here."
	got := scrubEmpathy(in)
	want := "I understand this is frustrating."
	if got != want {
		t.Errorf("scrubEmpathy = %q, want %q", got, want)
	}
}

func TestScrubEmpathyCaseInsensitive(t *testing.T) {
	in := "THANK YOU FOR reaching out. The customer reports a login failure."
	got := scrubEmpathy(in)
	if got != "THANK YOU FOR reaching out." {
		t.Errorf("scrubEmpathy = %q", got)
	}
}

func TestScrubEmpathyPassthrough(t *testing.T) {
	in := "The customer reports that scheduled jobs are stuck in the pending state."
	if got := scrubEmpathy(in); got != in {
		t.Errorf("scrubEmpathy changed a factual explanation: %q", got)
	}
}
