package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	aloha "github.com/hamchowderr/ncr-aloha"
	"github.com/hamchowderr/ncr-aloha/internal/logging"
	"github.com/hamchowderr/ncr-aloha/pkg/call"
	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/flow"
)

// Server exposes the voice ordering service over HTTP: one session per phone
// call, one intent POST per classified caller turn.
type Server struct {
	svc    *aloha.Service
	logger *slog.Logger
}

// Option customizes the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates the HTTP session server on top of a Service.
func NewServer(svc *aloha.Service, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	if collector := s.svc.Collector(); collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	r.Post("/sessions", s.createSession)
	r.Get("/sessions/{sessionID}", s.getSession)
	r.Delete("/sessions/{sessionID}", s.deleteSession)
	r.Post("/sessions/{sessionID}/intents", s.postIntent)
	r.Post("/sessions/{sessionID}/utterances", s.postUtterance)

	r.Get("/calls", s.listCalls)

	return r
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": aloha.Version,
	})
}

type createSessionRequest struct {
	FromNumber string `json:"from_number"`
	ToNumber   string `json:"to_number"`
}

type createSessionResponse struct {
	SessionID string     `json:"session_id"`
	Reply     flow.Reply `json:"reply"`
}

// createSession answers a new call: it allocates a session, registers it, and
// returns the greeting.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("createSession: invalid request body", "error", err)
			return
		}
	}

	sessionID := uuid.NewString()
	_, reply, err := s.svc.Answer(r.Context(), sessionID, body.FromNumber, body.ToNumber)
	if err != nil {
		http.Error(w, fmt.Sprintf("Session error: %v", err), http.StatusInternalServerError)
		s.logger.Error("createSession failed", "error", err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sessionID,
		Reply:     reply,
	})
}

// postIntent runs one classified caller turn.
func (s *Server) postIntent(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var intent domain.Intent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("postIntent: invalid request body", "error", err)
		return
	}
	if intent.Name == "" {
		http.Error(w, "Intent name is required", http.StatusBadRequest)
		return
	}

	reply, err := c.HandleIntent(r.Context(), intent)
	if err != nil {
		http.Error(w, fmt.Sprintf("Intent error: %v", err), http.StatusInternalServerError)
		s.logger.Error("postIntent failed", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type utteranceRequest struct {
	Content string `json:"content"`
}

// postUtterance records what the caller said, for the transcript.
func (s *Server) postUtterance(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var body utteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	c.AddCallerUtterance(body.Content)
	w.WriteHeader(http.StatusNoContent)
}

// getSession returns the call record so far.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.Record())
}

// deleteSession is the transport disconnect path.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.svc.Disconnect(r.Context(), chi.URLParam(r, "sessionID")) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listCalls returns the live-call registry contents.
func (s *Server) listCalls(w http.ResponseWriter, r *http.Request) {
	registry := s.svc.Registry()
	if registry == nil {
		writeJSON(w, http.StatusOK, []domain.CallInfo{})
		return
	}

	calls, err := registry.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("listCalls failed", "error", err)
		return
	}
	if calls == nil {
		calls = []domain.CallInfo{}
	}
	writeJSON(w, http.StatusOK, calls)
}

// Shutdown finalizes every live call, flushing their records.
func (s *Server) Shutdown(ctx context.Context) {
	s.svc.Shutdown(ctx)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*call.Call, bool) {
	c, ok := s.svc.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return c, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
