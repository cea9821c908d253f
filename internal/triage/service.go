package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pk527236/ai-support-assistant/internal/ai"
	"github.com/pk527236/ai-support-assistant/internal/model"
	"github.com/pk527236/ai-support-assistant/internal/search"
)

// ErrAssistantUnavailable is returned when no language model is configured.
// Handlers translate it into a client error rather than a server fault.
var ErrAssistantUnavailable = errors.New("triage: assistant not configured")

// KeywordSearcher builds a knowledge-base context block for a query.
// *search.Searcher is the production implementation.
type KeywordSearcher interface {
	BuildContext(ctx context.Context, query string, opts search.ContextOptions) string
}

// VectorSearcher retrieves semantically related documentation.
type VectorSearcher interface {
	Context(ctx context.Context, query string) (string, error)
}

// TicketStore persists handled tickets.
type TicketStore interface {
	SaveTicket(ctx context.Context, report model.TicketReport) error
}

// EventPublisher announces handled tickets to downstream consumers.
type EventPublisher interface {
	TicketTriaged(ctx context.Context, report model.TicketReport) error
}

// Options wires a Service. Assistant is effectively required: without it
// HandleTicket and Answer return ErrAssistantUnavailable. Everything else
// is optional and skipped when nil.
type Options struct {
	Assistant       ai.Assistant
	Keyword         KeywordSearcher
	Vectors         VectorSearcher
	Store           TicketStore
	Events          EventPublisher
	Policy          *Policy
	Product         string
	ContextArticles int
	FetchFresh      bool
}

// Service runs the full triage workflow: redirect check, classification,
// explanation, acknowledgment, and knowledge-base backed solutions.
type Service struct {
	assistant   ai.Assistant
	keyword     KeywordSearcher
	vectors     VectorSearcher
	store       TicketStore
	events      EventPublisher
	policy      *Policy
	product     string
	ctxArticles int
	fetchFresh  bool
}

func NewService(opts Options) *Service {
	policy := opts.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	product := opts.Product
	if product == "" {
		product = "DVSum"
	}
	return &Service{
		assistant:   opts.Assistant,
		keyword:     opts.Keyword,
		vectors:     opts.Vectors,
		store:       opts.Store,
		events:      opts.Events,
		policy:      policy,
		product:     product,
		ctxArticles: opts.ContextArticles,
		fetchFresh:  opts.FetchFresh,
	}
}

func (s *Service) AssistantReady() bool { return s.assistant != nil }
func (s *Service) KeywordEnabled() bool { return s.keyword != nil }
func (s *Service) VectorEnabled() bool  { return s.vectors != nil }

// HandleTicket runs the triage workflow for one ticket and returns the full
// report. Off-topic tickets short-circuit to a redirect; everything else is
// classified, explained, acknowledged and, where the knowledge base helps,
// answered with a concrete solution.
func (s *Service) HandleTicket(ctx context.Context, ticketText string) (model.TicketReport, error) {
	if s.assistant == nil {
		return model.TicketReport{}, ErrAssistantUnavailable
	}

	report := model.TicketReport{
		TicketID:  uuid.NewString(),
		Text:      ticketText,
		CreatedAt: time.Now(),
	}

	if redirect := s.policy.Redirect(s.product, ticketText); redirect != nil {
		report.Redirected = true
		report.Redirect = redirect
		slog.Info("ticket redirected", "id", report.TicketID, "category", redirect.Category)
		s.record(ctx, report)
		return report, nil
	}

	classification, err := s.assistant.ClassifyTicket(ctx, ticketText)
	if err != nil {
		slog.Warn("classification failed, using defaults", "id", report.TicketID, "error", err)
		classification = model.Classification{
			Severity:  model.SeverityS3,
			Type:      model.TypeQuestion,
			Reasoning: "Default classification due to error",
		}
	}
	sla := s.policy.Severity(classification.Severity)
	report.Classification = &classification
	report.SeverityName = sla.Name
	report.TypeDescription = s.policy.TypeDescription(classification.Type)
	report.SLA = &model.SLA{ResponseTime: sla.Response, ResolutionTime: sla.Resolution}

	explanation, err := s.assistant.ExplainTicket(ctx, ticketText)
	if err != nil {
		slog.Warn("explanation failed, using fallback", "id", report.TicketID, "error", err)
		explanation = fmt.Sprintf("The customer has submitted a support request regarding %s product functionality.", s.product)
	}
	report.Explanation = explanation

	ack, err := s.policy.RenderAcknowledgment(s.product, classification, explanation, report.CreatedAt)
	if err != nil {
		return model.TicketReport{}, fmt.Errorf("triage: render acknowledgment: %w", err)
	}
	report.Acknowledgment = ack

	switch classification.Type {
	case model.TypeBug, model.TypeQuestion, model.TypeRequest:
		parts, sources, methods := s.searchKnowledgeBase(ctx, ticketText)
		if len(parts) > 0 {
			solution, err := s.assistant.DraftSolution(ctx, ticketText, combineContext(parts), classification.Severity, sla.Name)
			if err != nil {
				slog.Warn("solution generation failed", "id", report.TicketID, "error", err)
			} else {
				if len(sources) == 0 {
					sources = []string{s.product + " Knowledge Base"}
				}
				report.Solution = &model.Solution{Text: solution, Sources: sources, SearchMethods: methods}
			}
		}
	case model.TypeEnhancement:
		summary, err := s.assistant.SummarizeFeatureRequest(ctx, ticketText)
		if err != nil {
			slog.Warn("feature request summary failed", "id", report.TicketID, "error", err)
		} else {
			report.FRSummary = summary
		}
	}

	slog.Info("ticket handled",
		"id", report.TicketID,
		"severity", classification.Severity,
		"type", classification.Type,
		"solution", report.Solution != nil,
	)
	s.record(ctx, report)
	return report, nil
}

// ChatAnswer is the reply to a follow-up question.
type ChatAnswer struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	SearchMethods []string `json:"search_methods_used"`
}

// Answer responds to a follow-up question, grounding the reply in the
// knowledge base when it has anything relevant.
func (s *Service) Answer(ctx context.Context, question, ticketContext string) (ChatAnswer, error) {
	if s.assistant == nil {
		return ChatAnswer{}, ErrAssistantUnavailable
	}

	parts, sources, methods := s.searchKnowledgeBase(ctx, question)
	kbContext := ""
	if len(parts) > 0 {
		var b strings.Builder
		for _, part := range parts {
			b.WriteString(part.content)
			b.WriteString("\n")
		}
		kbContext = b.String()
	} else {
		sources = []string{"General Knowledge"}
		methods = []string{"General AI"}
	}

	answer, err := s.assistant.AnswerFollowUp(ctx, question, ticketContext, kbContext)
	if err != nil {
		return ChatAnswer{}, fmt.Errorf("triage: answer follow-up: %w", err)
	}
	return ChatAnswer{Answer: answer, Sources: sources, SearchMethods: methods}, nil
}

type contextPart struct {
	method  string
	content string
}

var urlPattern = regexp.MustCompile(`URL: (https?://[^\s]+)`)

// searchKnowledgeBase queries every configured search backend and returns
// the labelled context blocks plus the article URLs they referenced.
func (s *Service) searchKnowledgeBase(ctx context.Context, query string) ([]contextPart, []string, []string) {
	var (
		parts   []contextPart
		sources []string
		methods []string
	)

	if s.keyword != nil {
		kbContext := s.keyword.BuildContext(ctx, query, search.ContextOptions{
			MaxArticles: s.ctxArticles,
			FetchFresh:  s.fetchFresh,
		})
		if kbContext != "" {
			parts = append(parts, contextPart{method: "Knowledge Base Articles", content: kbContext})
			methods = append(methods, "Knowledge Base Articles")
			for _, m := range urlPattern.FindAllStringSubmatch(kbContext, -1) {
				sources = append(sources, m[1])
			}
		}
	}

	if s.vectors != nil {
		docContext, err := s.vectors.Context(ctx, query)
		if err != nil {
			slog.Warn("semantic search failed", "error", err)
		} else if docContext != "" {
			parts = append(parts, contextPart{method: "Documentation Database", content: docContext})
			methods = append(methods, "Documentation Database")
		}
	}

	return parts, sources, methods
}

func combineContext(parts []contextPart) string {
	rule := strings.Repeat("=", 60)
	var b strings.Builder
	for _, part := range parts {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n%s\n", rule, part.method, rule, part.content)
	}
	return b.String()
}

// record persists the report and publishes the triage event. Both are best
// effort: a storage or broker outage must not fail the customer response.
func (s *Service) record(ctx context.Context, report model.TicketReport) {
	if s.store != nil {
		if err := s.store.SaveTicket(ctx, report); err != nil {
			slog.Error("save ticket failed", "id", report.TicketID, "error", err)
		}
	}
	if s.events != nil {
		if err := s.events.TicketTriaged(ctx, report); err != nil {
			slog.Error("publish ticket event failed", "id", report.TicketID, "error", err)
		}
	}
}
