package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/pk527236/ai-support-assistant/internal/model"
	"github.com/pk527236/ai-support-assistant/internal/triage"
)

// TriageService is the slice of the triage service the API exposes.
type TriageService interface {
	HandleTicket(ctx context.Context, ticketText string) (model.TicketReport, error)
	Answer(ctx context.Context, question, ticketContext string) (triage.ChatAnswer, error)
	AssistantReady() bool
	KeywordEnabled() bool
	VectorEnabled() bool
}

// ArticleCounter reports the keyword snapshot size for /health.
type ArticleCounter interface {
	Len() int
}

// DocumentCounter reports the vector collection size for /health.
type DocumentCounter interface {
	Count(ctx context.Context) (int, error)
}

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Product        string
}

// Server is the HTTP API in front of the triage service.
type Server struct {
	server    *http.Server
	router    *mux.Router
	svc       TriageService
	articles  ArticleCounter
	documents DocumentCounter
	product   string
}

// NewServer wires routes and middleware. articles and documents may be
// nil when the corresponding search method is not configured.
func NewServer(cfg Config, svc TriageService, articles ArticleCounter, documents DocumentCounter) *Server {
	router := mux.NewRouter()

	s := &Server{
		router:    router,
		svc:       svc,
		articles:  articles,
		documents: documents,
		product:   cfg.Product,
	}
	if s.product == "" {
		s.product = "DVSum"
	}

	router.Use(recoverMiddleware)
	router.Use(requestLogMiddleware)
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	router.Use(c.Handler)

	router.HandleFunc("/handle-ticket", s.handleTicket).Methods(http.MethodPost)
	router.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
		// Write timeout covers the whole LLM chain behind /handle-ticket.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	slog.Info("http api listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	slog.Info("http api shutting down")
	return s.server.Shutdown(ctx)
}

// statusWriter captures the status code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic in handler", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
