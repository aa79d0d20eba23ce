// Package server exposes a debug HTTP API over a running engine.
//
// The API drives the engine headlessly: load a conversation, inspect the
// board and layout state, report measurements, and mutate edges. It is a
// development surface, not a production transport.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/buildinfo"
	"github.com/tilegrid/boardflow/pkg/engine"
	"github.com/tilegrid/boardflow/pkg/errors"
	"github.com/tilegrid/boardflow/pkg/render"
)

// Server wraps one engine behind an HTTP API.
//
// The engine runs a single-threaded cooperative model; the server is the
// loop owner and serializes every handler on one mutex, so concurrent
// requests cannot interleave engine calls.
type Server struct {
	mu       sync.Mutex
	engine   *engine.Engine
	exporter *render.Exporter
	logger   *log.Logger
}

// New creates a server around an engine. A nil exporter disables the
// export endpoint's caching but not the endpoint itself.
func New(e *engine.Engine, exporter *render.Exporter, logger *log.Logger) *Server {
	if exporter == nil {
		exporter = render.NewExporter(nil, nil, render.Options{})
	}
	return &Server{engine: e, exporter: exporter, logger: logger}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/load", s.load)
		r.Get("/board", s.getBoard)
		r.Get("/layout", s.getLayout)
		r.Get("/export", s.export)
		r.Post("/reflow", s.reflow)
		r.Post("/mode", s.setMode)
		r.Post("/edges", s.createEdge)
		r.Post("/edges/reload", s.reloadEdges)
		r.Delete("/edges/{edgeID}", s.deleteEdge)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Conversation string `json:"conversation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Conversation == "" {
		s.respondError(w, http.StatusBadRequest, "body must carry a conversation id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.LoadConversation(r.Context(), req.Conversation); err != nil {
		s.logger.Warn("load failed", "conversation", req.Conversation, "err", err)
		s.respondError(w, statusFor(err), errors.UserMessage(err))
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"conversation": req.Conversation,
		"panels":       s.engine.Board().PanelCount(),
		"edges":        s.engine.Board().EdgeCount(),
	})
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireLoaded(w) {
		return
	}

	f := s.engine.Board().Snapshot()
	f.Mode = s.engine.Session().Mode
	f.Viewport = s.engine.Viewport()
	s.respond(w, http.StatusOK, f)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireLoaded(w) {
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"viewport":  s.engine.Viewport(),
		"alignment": s.engine.Alignment(),
		"geometry":  s.engine.Geometry(),
		"params":    s.engine.Params(),
		"reflowing": s.engine.Reflowing(),
	})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(formatOrDefault(r))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errors.UserMessage(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireLoaded(w) {
		return
	}

	data, err := s.exporter.Export(r.Context(), s.engine.Board().Snapshot(), format)
	if err != nil {
		s.logger.Warn("export failed", "format", format, "err", err)
		s.respondError(w, http.StatusInternalServerError, errors.UserMessage(err))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) reflow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PanelID string  `json:"panel_id"`
		Height  float64 `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PanelID == "" {
		s.respondError(w, http.StatusBadRequest, "body must carry panel_id and height")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireLoaded(w) {
		return
	}

	s.engine.PanelMeasured(r.Context(), req.PanelID, req.Height)
	s.respond(w, http.StatusOK, map[string]any{
		"reflowing": s.engine.Reflowing(),
	})
}

func (s *Server) setMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode board.Mode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "body must carry a mode")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireLoaded(w) {
		return
	}

	if err := s.engine.SetMode(r.Context(), req.Mode); err != nil {
		s.respondError(w, statusFor(err), errors.UserMessage(err))
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"mode": req.Mode})
}

func (s *Server) createEdge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source string `json:"source"`
		Target string `json:"target"`
		Style  string `json:"style,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireLoaded(w) {
		return
	}

	edge, err := s.engine.CreateEdge(r.Context(), req.Source, req.Target, req.Style)
	if err != nil {
		s.respondError(w, statusFor(err), errors.UserMessage(err))
		return
	}
	s.respond(w, http.StatusCreated, edge)
}

// reloadEdges re-syncs the board with the persisted edge list, dropping
// any optimistic state a failed write may have left behind.
func (s *Server) reloadEdges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireLoaded(w) {
		return
	}

	if err := s.engine.ReloadEdges(r.Context()); err != nil {
		s.logger.Warn("edge reload failed", "err", err)
		s.respondError(w, statusFor(err), errors.UserMessage(err))
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"edges": s.engine.Board().EdgeCount(),
	})
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request) {
	edgeID := chi.URLParam(r, "edgeID")

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.requireLoaded(w) {
		return
	}

	if err := s.engine.DeleteEdge(r.Context(), edgeID); err != nil {
		s.respondError(w, statusFor(err), errors.UserMessage(err))
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"deleted": edgeID})
}

// requireLoaded rejects requests arriving before a conversation is
// loaded. Callers must hold the mutex.
func (s *Server) requireLoaded(w http.ResponseWriter) bool {
	if s.engine.Board() == nil {
		s.respondError(w, http.StatusConflict, "no conversation loaded")
		return false
	}
	return true
}

var contentTypes = map[render.Format]string{
	render.FormatJSON: "application/json",
	render.FormatDOT:  "text/vnd.graphviz",
	render.FormatSVG:  "image/svg+xml",
	render.FormatPNG:  "image/png",
}

func formatOrDefault(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	return string(render.FormatJSON)
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodePanelNotFound, errors.ErrCodeEdgeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSessionNotFound:
		return http.StatusConflict
	case errors.ErrCodeTransientIO:
		return http.StatusBadGateway
	case errors.ErrCodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, map[string]string{"error": message})
}
