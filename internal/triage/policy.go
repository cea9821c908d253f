package triage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pk527236/ai-support-assistant/internal/model"
)

// SLAPolicy describes how tickets of one severity are handled.
type SLAPolicy struct {
	Name        string `yaml:"name"`
	Response    string `yaml:"response"`
	Resolution  string `yaml:"resolution"`
	Priority    string `yaml:"priority"`
	Description string `yaml:"description"`
}

// RedirectRule routes tickets that belong to another team. Rules are
// evaluated in order and the first keyword hit wins.
type RedirectRule struct {
	Category string   `yaml:"category"`
	Email    string   `yaml:"email"`
	Keywords []string `yaml:"keywords"`
}

// Policy bundles the severity table, the ticket type descriptions and the
// redirect rules. A YAML overlay merges severity and type rows per key;
// redirect rules replace the whole list so their ordering stays explicit.
type Policy struct {
	Severities map[model.Severity]SLAPolicy `yaml:"severities"`
	Types      map[model.TicketType]string  `yaml:"types"`
	Redirects  []RedirectRule               `yaml:"redirects"`
}

func DefaultPolicy() *Policy {
	return &Policy{
		Severities: map[model.Severity]SLAPolicy{
			model.SeverityS1: {
				Name:        "Critical Incident",
				Response:    "Immediate",
				Resolution:  "4 hours",
				Priority:    "Critical",
				Description: "System down, complete crash, production outage, data loss, security breach",
			},
			model.SeverityS2: {
				Name:        "Important Incident",
				Response:    "Within 30 minutes",
				Resolution:  "8 hours",
				Priority:    "High",
				Description: "Major functionality broken, connectivity issues, jobs stuck, access denied",
			},
			model.SeverityS3: {
				Name:        "Regular Problem",
				Response:    "Within 2 hours",
				Resolution:  "2 business days",
				Priority:    "Normal",
				Description: "Questions, configuration, feature requests, minor issues",
			},
		},
		Types: map[model.TicketType]string{
			model.TypeBug:         "A defect or error in the system causing unexpected behavior",
			model.TypeEnhancement: "Request for new features or improvements to existing functionality",
			model.TypeQuestion:    "Inquiry about how to use features or clarification needed",
			model.TypeRequest:     "Configuration changes, access requests, or general service requests",
		},
		Redirects: []RedirectRule{
			{
				Category: "training",
				Email:    "training@dvsum.com",
				Keywords: []string{"training", "course", "certification", "learning", "workshop"},
			},
			{
				Category: "it_helpdesk",
				Email:    "helpdesk@dvsum.com",
				Keywords: []string{"laptop", "hardware", "vpn", "network access", "wifi", "password reset", "account creation"},
			},
			{
				Category: "infosec",
				Email:    "infosec@dvsum.com",
				Keywords: []string{"security policy", "security incident", "phishing", "vulnerability", "infosec"},
			},
			{
				Category: "hr_us",
				Email:    "hr@dvsum.com",
				Keywords: []string{"benefits", "pto", "vacation", "leave", "onboarding", "offboarding", "401k"},
			},
			{
				Category: "payroll_us",
				Email:    "finance@dvsum.com",
				Keywords: []string{"paycheck", "salary", "tax", "w2", "payment", "payroll"},
			},
			{
				Category: "hr_india",
				Email:    "hr-india@dvsum.com",
				Keywords: []string{"india office", "bangalore office", "india hr", "indian employee"},
			},
		},
	}
}

// LoadPolicy reads a YAML policy file and merges it over the defaults.
// An empty path returns the defaults unchanged.
func LoadPolicy(path string) (*Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("triage: read policy: %w", err)
	}
	var overlay Policy
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("triage: parse policy %s: %w", path, err)
	}
	if len(overlay.Severities) > 0 {
		for sev, sla := range overlay.Severities {
			if !sev.Valid() {
				return nil, fmt.Errorf("triage: policy %s: unknown severity %q", path, sev)
			}
			p.Severities[sev] = sla
		}
	}
	if len(overlay.Types) > 0 {
		for t, desc := range overlay.Types {
			if !t.Valid() {
				return nil, fmt.Errorf("triage: policy %s: unknown ticket type %q", path, t)
			}
			p.Types[t] = desc
		}
	}
	if len(overlay.Redirects) > 0 {
		for _, r := range overlay.Redirects {
			if r.Category == "" || r.Email == "" || len(r.Keywords) == 0 {
				return nil, fmt.Errorf("triage: policy %s: redirect rule needs category, email and keywords", path)
			}
		}
		p.Redirects = overlay.Redirects
	}
	return p, nil
}

// Severity returns the SLA row for s, falling back to the S3 row for
// anything unrecognized.
func (p *Policy) Severity(s model.Severity) SLAPolicy {
	if sla, ok := p.Severities[s]; ok {
		return sla
	}
	return p.Severities[model.SeverityS3]
}

func (p *Policy) TypeDescription(t model.TicketType) string {
	return p.Types[t]
}

func (p *Policy) SLA(s model.Severity) model.SLA {
	sla := p.Severity(s)
	return model.SLA{ResponseTime: sla.Response, ResolutionTime: sla.Resolution}
}
