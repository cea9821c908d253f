package triage

import (
	"bytes"
	_ "embed"
	"text/template"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

type ackData struct {
	Explanation     string
	Severity        string
	SeverityName    string
	Type            string
	TypeDescription string
	Priority        string
	ResponseTime    string
	ResolutionTime  string
	Actions         string
	Timestamp       string
	Product         string
}

//go:embed ack.tmpl
var ackTpl string

var ackCompiled = template.Must(template.New("acknowledgment").Parse(ackTpl))

const s1Actions = `**IMMEDIATE ACTIONS BEING TAKEN:**
• Escalated to Product Engineering Team for immediate investigation
• Setting up dedicated bridge call for real-time collaboration
• This is being handled as our TOP PRIORITY

**NEXT STEPS:**
• You will receive bridge call details shortly
• Please join the call so we can resolve this as quickly as possible
• A senior engineer will be assigned immediately

We understand the critical nature of this issue and are committed to resolving it urgently.`

const s2Actions = `**ACTIONS BEING TAKEN:**
• Support team is actively investigating the issue
• Working to identify root cause and provide resolution
• You will receive regular updates on progress

**NEXT STEPS:**
• Our team will provide updates as we make progress
• If we need additional information, we'll reach out to you
• Expected resolution within the SLA timeframe

We appreciate your patience as we work to resolve this matter promptly.`

const s3Actions = `**ACTIONS BEING TAKEN:**
• Your request has been logged and assigned to our support team
• We will review the details and respond with required information

**NEXT STEPS:**
• Our team will investigate and provide a detailed response
• If we need any additional information, we'll contact you
• We aim to resolve this within the SLA timeframe

Thank you for your patience.`

func actionsFor(severity model.Severity) string {
	switch severity {
	case model.SeverityS1:
		return s1Actions
	case model.SeverityS2:
		return s2Actions
	default:
		return s3Actions
	}
}

// RenderAcknowledgment produces the formal acknowledgment text that is sent
// back to the customer alongside the classification.
func (p *Policy) RenderAcknowledgment(product string, c model.Classification, explanation string, now time.Time) (string, error) {
	sla := p.Severity(c.Severity)
	d := ackData{
		Explanation:     explanation,
		Severity:        string(c.Severity),
		SeverityName:    sla.Name,
		Type:            string(c.Type),
		TypeDescription: p.TypeDescription(c.Type),
		Priority:        sla.Priority,
		ResponseTime:    sla.Response,
		ResolutionTime:  sla.Resolution,
		Actions:         actionsFor(c.Severity),
		Timestamp:       now.Format("2006-01-02 15:04:05"),
		Product:         product,
	}
	var buf bytes.Buffer
	if err := ackCompiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
