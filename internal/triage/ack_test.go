package triage

import (
	"strings"
	"testing"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

func TestRenderAcknowledgmentS1(t *testing.T) {
	p := DefaultPolicy()
	c := model.Classification{Severity: model.SeverityS1, Type: model.TypeBug, Reasoning: "outage"}
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	ack, err := p.RenderAcknowledgment("DVSum", c, "The customer reports a production outage.", now)
	if err != nil {
		t.Fatalf("RenderAcknowledgment: %v", err)
	}

	for _, want := range []string{
		"TICKET ACKNOWLEDGMENT",
		"**ISSUE SUMMARY:**\nThe customer reports a production outage.",
		"• Severity: S1 - Critical Incident",
		"• Type: BUG - A defect or error in the system causing unexpected behavior",
		"• Priority: Critical",
		"• Response Time: Immediate",
		"• Resolution Target: 4 hours",
		"**IMMEDIATE ACTIONS BEING TAKEN:**",
		"dedicated bridge call",
		"**STATUS:** Acknowledged and Assigned",
		"**TIMESTAMP:** 2025-03-14 09:30:00",
		"Best regards,\nDVSum Support Team",
	} {
		if !strings.Contains(ack, want) {
			t.Errorf("acknowledgment missing %q", want)
		}
	}

	rule := strings.Repeat("=", 80)
	if strings.Count(ack, rule) < 3 {
		t.Errorf("expected three frame rules, got %d", strings.Count(ack, rule))
	}
}

func TestRenderAcknowledgmentSeverityBlocks(t *testing.T) {
	p := DefaultPolicy()
	now := time.Now()

	s2, err := p.RenderAcknowledgment("DVSum", model.Classification{Severity: model.SeverityS2, Type: model.TypeBug}, "x", now)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s2, "Support team is actively investigating") || strings.Contains(s2, "bridge call") {
		t.Error("S2 acknowledgment has wrong action block")
	}

	s3, err := p.RenderAcknowledgment("DVSum", model.Classification{Severity: model.SeverityS3, Type: model.TypeQuestion}, "x", now)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s3, "Your request has been logged") {
		t.Error("S3 acknowledgment has wrong action block")
	}
	if !strings.Contains(s3, "Thank you for your patience.") {
		t.Error("S3 acknowledgment missing closing line")
	}
}
