package model

import "time"

// Severity is a triage severity level.
type Severity string

const (
	SeverityS1 Severity = "S1"
	SeverityS2 Severity = "S2"
	SeverityS3 Severity = "S3"
)

// Valid reports whether s is a known severity level.
func (s Severity) Valid() bool {
	switch s {
	case SeverityS1, SeverityS2, SeverityS3:
		return true
	}
	return false
}

// TicketType classifies what kind of request a ticket is.
type TicketType string

const (
	TypeBug         TicketType = "BUG"
	TypeEnhancement TicketType = "ENHANCEMENT"
	TypeQuestion    TicketType = "QUESTION"
	TypeRequest     TicketType = "REQUEST"
)

// Valid reports whether t is a known ticket type.
func (t TicketType) Valid() bool {
	switch t {
	case TypeBug, TypeEnhancement, TypeQuestion, TypeRequest:
		return true
	}
	return false
}

// Classification is the triage verdict for one ticket.
type Classification struct {
	Severity  Severity   `json:"severity"`
	Type      TicketType `json:"ticket_type"`
	Reasoning string     `json:"reasoning"`
}

// Redirect points an out-of-scope ticket at the team that owns it.
type Redirect struct {
	Category string `json:"category"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// Solution is a knowledge-base backed answer for a ticket.
type Solution struct {
	Text          string   `json:"solution"`
	Sources       []string `json:"sources"`
	SearchMethods []string `json:"search_methods"`
}

// SLA holds the response and resolution targets for a severity level.
type SLA struct {
	ResponseTime   string `json:"response_time"`
	ResolutionTime string `json:"resolution_time"`
}

// TicketReport is the full outcome of handling one ticket.
type TicketReport struct {
	TicketID        string          `json:"ticket_id"`
	Text            string          `json:"ticket_text"`
	Redirected      bool            `json:"redirected"`
	Redirect        *Redirect       `json:"redirect,omitempty"`
	Classification  *Classification `json:"classification,omitempty"`
	SeverityName    string          `json:"severity_name,omitempty"`
	TypeDescription string          `json:"ticket_type_description,omitempty"`
	Explanation     string          `json:"simple_explanation,omitempty"`
	Acknowledgment  string          `json:"acknowledgment,omitempty"`
	SLA             *SLA            `json:"sla,omitempty"`
	Solution        *Solution       `json:"immediate_solution,omitempty"`
	FRSummary       string          `json:"fr_summary,omitempty"`
	CreatedAt       time.Time       `json:"timestamp"`
}
