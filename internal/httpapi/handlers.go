package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pk527236/ai-support-assistant/internal/model"
	"github.com/pk527236/ai-support-assistant/internal/triage"
)

type ticketRequest struct {
	TicketText string `json:"ticket_text"`
}

type ticketResponse struct {
	Success bool `json:"success"`
	model.TicketReport
}

type chatRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTicket(w http.ResponseWriter, r *http.Request) {
	if !s.svc.AssistantReady() {
		writeError(w, http.StatusBadRequest, "AI agent not initialized, check the openai api_key setting")
		return
	}

	var req ticketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	text := strings.TrimSpace(req.TicketText)
	if text == "" {
		writeError(w, http.StatusBadRequest, "No ticket text provided")
		return
	}

	report, err := s.svc.HandleTicket(r.Context(), text)
	if err != nil {
		if errors.Is(err, triage.ErrAssistantUnavailable) {
			writeError(w, http.StatusBadRequest, "AI agent not initialized, check the openai api_key setting")
			return
		}
		slog.Error("ticket handling failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error processing ticket")
		return
	}
	writeJSON(w, http.StatusOK, ticketResponse{Success: true, TicketReport: report})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !s.svc.AssistantReady() {
		writeError(w, http.StatusBadRequest, "LLM not initialized")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "No question provided")
		return
	}

	answer, err := s.svc.Answer(r.Context(), question, req.Context)
	if err != nil {
		slog.Error("chat answer failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error answering question")
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

type healthResponse struct {
	Status        string        `json:"status"`
	AgentMode     string        `json:"agent_mode"`
	LLM           string        `json:"llm"`
	SearchMethods searchMethods `json:"search_methods"`
	Capabilities  []string      `json:"capabilities"`
}

type searchMethods struct {
	Keyword  keywordHealth  `json:"keyword_search"`
	Semantic semanticHealth `json:"semantic_search"`
}

type keywordHealth struct {
	Enabled       bool `json:"enabled"`
	ArticlesCount int  `json:"articles_count"`
}

type semanticHealth struct {
	Enabled        bool `json:"enabled"`
	DocumentsCount int  `json:"documents_count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	articleCount := 0
	if s.articles != nil {
		articleCount = s.articles.Len()
	}
	documentCount := 0
	if s.documents != nil {
		if n, err := s.documents.Count(r.Context()); err != nil {
			slog.Warn("vector store count failed", "error", err)
		} else {
			documentCount = n
		}
	}

	llm := "not initialized"
	if s.svc.AssistantReady() {
		llm = "initialized"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		AgentMode: strings.ToLower(s.product) + "_support_agent",
		LLM:       llm,
		SearchMethods: searchMethods{
			Keyword: keywordHealth{
				Enabled:       s.svc.KeywordEnabled(),
				ArticlesCount: articleCount,
			},
			Semantic: semanticHealth{
				Enabled:        s.svc.VectorEnabled(),
				DocumentsCount: documentCount,
			},
		},
		Capabilities: []string{
			"Ticket triage and routing",
			"Severity classification (S1/S2/S3)",
			"Type detection (Bug/Enhancement/Question/Request)",
			"Factual issue summaries for support agents",
			fmt.Sprintf("Formal acknowledgments per %s SLA", s.product),
			"Knowledge base search for solutions",
			"Follow-up chat support",
			"FR summary generation for enhancements",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
