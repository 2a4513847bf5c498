// Package api wires the HTTP surface: vacancy/resume submission,
// prescreen lookup, report generation, the live audio WebSocket, and
// the operational endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hravatar/interview-gateway/internal/asr"
	"github.com/hravatar/interview-gateway/internal/config"
	"github.com/hravatar/interview-gateway/internal/evidence"
	"github.com/hravatar/interview-gateway/internal/interview"
	"github.com/hravatar/interview-gateway/internal/observability"
	"github.com/hravatar/interview-gateway/internal/report"
	"github.com/hravatar/interview-gateway/internal/resume"
	"github.com/hravatar/interview-gateway/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The browser client is served from a different origin during
		// development; tighten this before exposing publicly.
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Server holds the handlers' shared collaborators.
type Server struct {
	cfg         *config.Config
	state       *interview.State
	transcriber asr.Transcriber
	extractor   *evidence.Extractor
	parser      resume.Parser
	renderer    report.Renderer
	logger      zerolog.Logger
}

func NewServer(cfg *config.Config, state *interview.State, transcriber asr.Transcriber, extractor *evidence.Extractor, parser resume.Parser, renderer report.Renderer) *Server {
	return &Server{
		cfg:         cfg,
		state:       state,
		transcriber: transcriber,
		extractor:   extractor,
		parser:      parser,
		renderer:    renderer,
		logger:      observability.GetLogger(),
	}
}

// Router builds the service's route table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/vacancy", s.handleVacancy)
	r.Post("/resume", s.handleResume)
	r.Get("/prescreen", s.handlePrescreen)
	r.Post("/report", s.handleReport)
	r.Get("/audio", s.handleAudio)

	r.Get("/health", observability.HealthCheckHandler())
	r.Get("/ready", observability.ReadinessHandler(map[string]observability.HealthCheckFunc{
		"transcriber": func(context.Context) (bool, error) { return s.transcriber != nil, nil },
	}))
	if s.cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Rendered report artifacts.
	fs := http.StripPrefix("/reports/", http.FileServer(http.Dir(s.cfg.ReportsDir)))
	r.Get("/reports/*", fs.ServeHTTP)

	return r
}

// handleAudio upgrades the connection and runs a live audio session on
// it until stop or disconnect.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	session.New(conn, s.cfg, s.state, s.transcriber, s.extractor).Run()
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
