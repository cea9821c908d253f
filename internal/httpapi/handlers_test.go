package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/model"
	"github.com/pk527236/ai-support-assistant/internal/triage"
)

type stubService struct {
	ready   bool
	keyword bool
	vectors bool

	report    model.TicketReport
	reportErr error
	answer    triage.ChatAnswer
	answerErr error

	gotTicket   string
	gotQuestion string
	gotContext  string
}

func (s *stubService) HandleTicket(ctx context.Context, ticketText string) (model.TicketReport, error) {
	s.gotTicket = ticketText
	return s.report, s.reportErr
}

func (s *stubService) Answer(ctx context.Context, question, ticketContext string) (triage.ChatAnswer, error) {
	s.gotQuestion = question
	s.gotContext = ticketContext
	return s.answer, s.answerErr
}

func (s *stubService) AssistantReady() bool { return s.ready }
func (s *stubService) KeywordEnabled() bool { return s.keyword }
func (s *stubService) VectorEnabled() bool  { return s.vectors }

type stubArticles struct{ n int }

func (s stubArticles) Len() int { return s.n }

type stubDocuments struct{ n int }

func (s stubDocuments) Count(ctx context.Context) (int, error) { return s.n, nil }

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleTicketReturnsReport(t *testing.T) {
	svc := &stubService{
		ready: true,
		report: model.TicketReport{
			TicketID: "t-1",
			Text:     "CADDI is down",
			Classification: &model.Classification{
				Severity:  model.SeverityS1,
				Type:      model.TypeBug,
				Reasoning: "production outage",
			},
			SeverityName: "Critical Incident",
			CreatedAt:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		},
	}
	srv := NewServer(Config{Product: "DVSum"}, svc, nil, nil)

	rec := post(t, srv.Handler(), "/handle-ticket", `{"ticket_text": "CADDI is down"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.gotTicket != "CADDI is down" {
		t.Errorf("service got %q", svc.gotTicket)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["success"] != true {
		t.Error("success flag missing")
	}
	if body["ticket_id"] != "t-1" {
		t.Errorf("ticket_id = %v (report fields must be flattened)", body["ticket_id"])
	}
	cls, ok := body["classification"].(map[string]any)
	if !ok || cls["severity"] != "S1" {
		t.Errorf("classification = %v", body["classification"])
	}
}

func TestHandleTicketRejectsEmptyText(t *testing.T) {
	srv := NewServer(Config{}, &stubService{ready: true}, nil, nil)

	rec := post(t, srv.Handler(), "/handle-ticket", `{"ticket_text": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "No ticket text provided" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHandleTicketWithoutAssistant(t *testing.T) {
	srv := NewServer(Config{}, &stubService{ready: false}, nil, nil)

	rec := post(t, srv.Handler(), "/handle-ticket", `{"ticket_text": "help"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not initialized") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleTicketWrongMethod(t *testing.T) {
	srv := NewServer(Config{}, &stubService{ready: true}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/handle-ticket", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChatPassesQuestionAndContext(t *testing.T) {
	svc := &stubService{
		ready: true,
		answer: triage.ChatAnswer{
			Answer:        "1. Open the Agents tab",
			Sources:       []string{"https://kb.example.com/articles/1"},
			SearchMethods: []string{"Keyword Search (Fast)"},
		},
	}
	srv := NewServer(Config{}, svc, nil, nil)

	rec := post(t, srv.Handler(), "/chat", `{"question": "how do I retrain?", "context": "original ticket"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.gotQuestion != "how do I retrain?" || svc.gotContext != "original ticket" {
		t.Errorf("service got %q / %q", svc.gotQuestion, svc.gotContext)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["answer"] != "1. Open the Agents tab" {
		t.Errorf("answer = %v", body["answer"])
	}
	if _, ok := body["search_methods_used"]; !ok {
		t.Error("search_methods_used missing")
	}
}

func TestChatRejectsEmptyQuestion(t *testing.T) {
	srv := NewServer(Config{}, &stubService{ready: true}, nil, nil)

	rec := post(t, srv.Handler(), "/chat", `{"question": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealthReportsSearchMethods(t *testing.T) {
	svc := &stubService{ready: true, keyword: true, vectors: true}
	srv := NewServer(Config{Product: "DVSum"}, svc, stubArticles{n: 42}, stubDocuments{n: 7})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "healthy" || body.AgentMode != "dvsum_support_agent" || body.LLM != "initialized" {
		t.Errorf("body = %+v", body)
	}
	if !body.SearchMethods.Keyword.Enabled || body.SearchMethods.Keyword.ArticlesCount != 42 {
		t.Errorf("keyword = %+v", body.SearchMethods.Keyword)
	}
	if !body.SearchMethods.Semantic.Enabled || body.SearchMethods.Semantic.DocumentsCount != 7 {
		t.Errorf("semantic = %+v", body.SearchMethods.Semantic)
	}
	if len(body.Capabilities) == 0 {
		t.Error("capabilities empty")
	}
}

func TestHealthDegraded(t *testing.T) {
	srv := NewServer(Config{}, &stubService{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.LLM != "not initialized" {
		t.Errorf("llm = %q", body.LLM)
	}
	if body.SearchMethods.Keyword.Enabled || body.SearchMethods.Keyword.ArticlesCount != 0 {
		t.Errorf("keyword = %+v", body.SearchMethods.Keyword)
	}
}
