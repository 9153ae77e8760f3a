package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/seoscope/seoscope/internal/rag"
	"github.com/seoscope/seoscope/internal/seo"
)

// SiteAnalyzer runs the page-analysis pipeline.
type SiteAnalyzer interface {
	Analyze(ctx context.Context, url string) (*seo.SiteReport, error)
	Screenshot(ctx context.Context, url string) (string, error)
	Audit(ctx context.Context, url string) (*seo.AuditReport, error)
}

// Indexer rebuilds the document index.
type Indexer interface {
	Rebuild(ctx context.Context) error
}

// Responder answers questions against the document index.
type Responder interface {
	Answer(ctx context.Context, question string) (string, error)
}

// BacklinkSource fetches third-party backlink data.
type BacklinkSource interface {
	Configured() bool
	Live(ctx context.Context) (json.RawMessage, error)
}

// Server is the HTTP API server.
type Server struct {
	router    chi.Router
	analyzer  SiteAnalyzer
	indexer   Indexer
	responder Responder
	ragState  *rag.State
	backlinks BacklinkSource
	log       *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(analyzer SiteAnalyzer, indexer Indexer, responder Responder, ragState *rag.State, backlinks BacklinkSource, log *slog.Logger) *Server {
	s := &Server{
		analyzer:  analyzer,
		indexer:   indexer,
		responder: responder,
		ragState:  ragState,
		backlinks: backlinks,
		log:       log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routeMethods maps single-method routes to their allowed method, for the
// Allow header on 405 responses.
var routeMethods = map[string]string{
	"/analyze":     http.MethodPost,
	"/screenshot":  http.MethodPost,
	"/lighthouse":  http.MethodPost,
	"/query":       http.MethodPost,
	"/backlinks":   http.MethodGet,
	"/init/status": http.MethodGet,
	"/health":      http.MethodGet,
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/health", s.handleHealth)

	r.Post("/analyze", s.handleAnalyze)
	r.Post("/screenshot", s.handleScreenshot)
	r.Post("/lighthouse", s.handleLighthouse)
	r.Get("/backlinks", s.handleBacklinks)

	// Indexing may be triggered with any method.
	r.HandleFunc("/init", s.handleInit)
	r.Get("/init/status", s.handleInitStatus)
	r.Post("/query", s.handleQuery)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if allow, ok := routeMethods[r.URL.Path]; ok {
		w.Header().Set("Allow", allow)
	}
	jsonError(w, "method "+r.Method+" not allowed", http.StatusMethodNotAllowed)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
