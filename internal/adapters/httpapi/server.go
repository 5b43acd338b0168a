// Package httpapi exposes controller operations over a JSON REST API:
// registering applications, negotiating sessions, posting messages and
// closing sessions, plus prometheus metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/castlet/castlet/internal/logging"
	"github.com/castlet/castlet/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controller defines what the API needs from the castlet core.
type Controller interface {
	RegisterApplication(ctx context.Context, url, launchID string) error
	RequestSession(ctx context.Context, url string) *session.Presentation
}

// Server tracks negotiated sessions by ID and serves the REST API.
type Server struct {
	controller Controller
	logger     *slog.Logger
	gatherer   prometheus.Gatherer

	mu       sync.RWMutex
	sessions map[string]*session.Presentation
}

type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the given prometheus registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates the API server around a controller.
func NewServer(controller Controller, opts ...Option) *Server {
	s := &Server{
		controller: controller,
		logger:     logging.NewNop(),
		sessions:   make(map[string]*session.Presentation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/applications", s.handleRegister)
		r.Post("/sessions", s.handleRequestSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/messages", s.handlePostMessage)
		r.Delete("/sessions/{id}", s.handleCloseSession)
	})

	return r
}

type registerRequest struct {
	URL      string `json:"url"`
	LaunchID string `json:"launch_id"`
}

type sessionRequest struct {
	URL string `json:"url"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	State string `json:"state"`
}

type messageRequest struct {
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" || req.LaunchID == "" {
		writeError(w, http.StatusBadRequest, "url and launch_id are required")
		return
	}

	if err := s.controller.RegisterApplication(r.Context(), req.URL, req.LaunchID); err != nil {
		s.logger.Error("registration failed", "err", err, "url", req.URL)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRequestSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	// Negotiation outlives the HTTP request on purpose.
	sess := s.controller.RequestSession(context.Background(), req.URL)
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:    id,
		URL:   sess.URL(),
		State: sess.State().String(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:    id,
		URL:   sess.URL(),
		State: sess.State().String(),
	})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Payload) == 0 {
		writeError(w, http.StatusBadRequest, "payload is required")
		return
	}

	// The session contract makes posting while disconnected a silent
	// no-op; the API mirrors that rather than inventing an error.
	sess.PostMessage(req.Payload)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.lookup(w, r)
	if !ok {
		return
	}

	sess.Close()
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Presentation, string, bool) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, "", false
	}
	return sess, id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
