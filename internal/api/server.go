package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/studymap/internal/config"
	"github.com/dgallion1/studymap/internal/llm"
	"github.com/dgallion1/studymap/internal/roadmap"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for studymap.
type Server struct {
	router  chi.Router
	builder *roadmap.Builder
	llm     *llm.Client
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server. client may be nil, in
// which case the stats endpoint reports itself unavailable.
func NewServer(builder *roadmap.Builder, client *llm.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		builder: builder,
		llm:     client,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.cfg.AllowedOrigins))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Get("/studymap", s.handleStudyMap)
	r.Get("/api/stats/llm", s.handleLLMStats)

	s.router = r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("studymap"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
