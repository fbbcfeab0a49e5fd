// Package http exposes a Simulator over a JSON API routed with chi.
// The API is described by the embedded openapi.yaml, which is validated when
// the handler is built and used to validate request bodies.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/no-hao/DFA/internal/logging"
	"github.com/no-hao/DFA/internal/presentation/graph"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/ports"
	"github.com/no-hao/DFA/pkg/runner"
	"github.com/no-hao/DFA/pkg/session"
)

// maxBodyBytes bounds request bodies; input strings are limited further by the sanitizer.
const maxBodyBytes = 1 << 20

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Simulator ports.Simulator
	Sessions  *session.Manager
	Streams   *StreamManager
	Logger    *slog.Logger

	doc           *openapi3.T
	requestSchema *openapi3.Schema
	metrics       http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithSessions enables run recording and the /sessions endpoints.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithMetricsHandler mounts h (typically promhttp) on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for sim.
func NewHandler(sim ports.Simulator, opts ...Option) (http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	requestSchema, err := schema(doc, "SimulateRequest")
	if err != nil {
		return nil, err
	}

	s := &Server{
		Simulator:     sim,
		Logger:        logging.NewNop(),
		doc:           doc,
		requestSchema: requestSchema,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.Logger)

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/simulate", s.Simulate)
	r.Get("/automaton", s.GetAutomaton)
	r.Get("/graph", s.GetGraph)
	r.Get("/sessions", s.ListSessions)
	r.Get("/sessions/{id}", s.GetSession)
	r.Delete("/sessions/{id}", s.DeleteSession)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>DFA Simulator API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// SimulateRequest is the body of POST /simulate.
type SimulateRequest struct {
	Input     *string  `json:"input,omitempty"`
	Symbols   []string `json:"symbols,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
}

// Simulate handles the POST /simulate request.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Simulate: Invalid request body", "err", err)
		return
	}
	if err := s.requestSchema.VisitJSON(raw); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	var body SimulateRequest
	if err := json.Unmarshal(data, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var input []domain.Symbol
	switch {
	case body.Symbols != nil:
		input, err = runner.SanitizeSymbols(body.Symbols)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid symbols: %v", err), http.StatusBadRequest)
			s.Logger.Warn("Simulate: Symbols rejected", "err", err, "count", len(body.Symbols))
			return
		}
	case body.Input != nil:
		clean, err := runner.SanitizeInput(*body.Input)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
			s.Logger.Warn("Simulate: Input rejected", "err", err, "size", len(*body.Input))
			return
		}
		input = s.Simulator.Tokenize(clean)
	default:
		http.Error(w, "Invalid request: input or symbols is required", http.StatusBadRequest)
		return
	}

	result := s.Simulator.Simulate(r.Context(), input)

	if body.SessionID != "" {
		if s.Sessions != nil {
			if _, err := s.Sessions.Record(r.Context(), body.SessionID, result); err != nil {
				http.Error(w, fmt.Sprintf("Failed to record run: %v", err), http.StatusInternalServerError)
				s.Logger.Error("Simulate: Record failed", "session_id", body.SessionID, "err", err)
				return
			}
		}
		if payload, err := json.Marshal(result); err == nil {
			s.Streams.Broadcast(body.SessionID, string(payload))
		}
	}

	writeJSON(w, s.Logger, http.StatusOK, result)
}

// GetAutomaton handles the GET /automaton request.
func (s *Server) GetAutomaton(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, s.Simulator.Automaton().Definition())
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	a := s.Simulator.Automaton()

	var overlay *graph.Overlay
	if r.URL.Query().Has("input") {
		input := r.URL.Query().Get("input")
		clean, err := runner.SanitizeInput(input)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
			return
		}
		overlay = graph.OverlayFromResult(s.Simulator.Simulate(r.Context(), s.Simulator.Tokenize(clean)))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(a, overlay))
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	if s.Sessions == nil {
		http.Error(w, "Sessions are not enabled", http.StatusNotImplemented)
		return
	}
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.Logger, http.StatusOK, ids)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	if s.Sessions == nil {
		http.Error(w, "Sessions are not enabled", http.StatusNotImplemented)
		return
	}
	transcript, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, transcript)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if s.Sessions == nil {
		http.Error(w, "Sessions are not enabled", http.StatusNotImplemented)
		return
	}
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	s.Logger.Info("SSE: Subscribing to session runs", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: run\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.doc.Info != nil {
		apiVersion = s.doc.Info.Version
	}
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{
		"app":         "dfa-http",
		"api_version": apiVersion,
		"automaton":   s.Simulator.Automaton().Name(),
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
