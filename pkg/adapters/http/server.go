package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/internal/logging"
	"github.com/aretw0/kanban/internal/runtime"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/aretw0/kanban/pkg/normalize"
	"github.com/aretw0/kanban/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

//go:embed openapi.yaml
var openapiSpec []byte

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 16 << 20

// Server exposes a single stored board over HTTP.
type Server struct {
	Sessions *session.Manager
	Engine   *runtime.Engine
	Streams  *StreamManager

	hooks   domain.LifecycleHooks
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithEngine sets the engine used by POST /api/board/actions.
func WithEngine(e *runtime.Engine) Option {
	return func(s *Server) {
		if e != nil {
			s.Engine = e
		}
	}
}

// WithHooks receives a TransitionEvent for every dispatched action.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = h
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds a Server around the session manager.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Engine == nil {
		s.Engine = runtime.NewEngine()
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for the board service.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Routes returns the router with every endpoint mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Route("/api/board", func(r chi.Router) {
		r.Get("/", s.GetBoard)
		r.Put("/", s.PutBoard)
		r.Delete("/", s.DeleteBoard)
		r.Post("/actions", s.DispatchAction)
		r.Get("/events", s.SubscribeEvents)
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
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
    <title>Kanban API Documentation</title>
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

// GetBoard handles GET /api/board. An empty store answers 204.
func (s *Server) GetBoard(w http.ResponseWriter, r *http.Request) {
	data, err := s.Sessions.Load(r.Context())
	if errors.Is(err, domain.ErrBoardNotFound) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetBoard failed", "err", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// PutBoard handles PUT /api/board. The body is stored verbatim.
func (s *Server) PutBoard(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		s.logger.Warn("PutBoard: Invalid request body", "err", err)
		return
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		http.Error(w, "Board must be a JSON object", http.StatusBadRequest)
		s.logger.Warn("PutBoard: Body is not a JSON object", "err", err)
		return
	}

	prev, err := s.Sessions.Swap(r.Context(), body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Save error: %v", err), http.StatusInternalServerError)
		s.logger.Error("PutBoard failed", "err", err)
		return
	}
	s.broadcastDiff(prev, body)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteBoard handles DELETE /api/board.
func (s *Server) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	prev, err := s.Sessions.Swap(r.Context(), nil)
	if err != nil {
		http.Error(w, fmt.Sprintf("Clear error: %v", err), http.StatusInternalServerError)
		s.logger.Error("DeleteBoard failed", "err", err)
		return
	}
	s.broadcastDiff(prev, nil)
	w.WriteHeader(http.StatusNoContent)
}

// DispatchAction handles POST /api/board/actions. The action is applied to the
// stored board (or a fresh one when the store is empty) under the session lock.
func (s *Server) DispatchAction(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		s.logger.Warn("DispatchAction: Invalid request body", "err", err)
		return
	}
	action, err := domain.DecodeAction(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid action: %v", err), http.StatusBadRequest)
		s.logger.Warn("DispatchAction: Invalid action", "err", err)
		return
	}

	var next *domain.BoardState
	var outcome domain.TransitionOutcome
	prev, stored, err := s.Sessions.Update(r.Context(), func(current []byte) ([]byte, error) {
		state := s.Engine.InitialState()
		if current != nil {
			decoded, err := s.decode(current)
			if err != nil {
				return nil, err
			}
			state = decoded
		}
		next, outcome = s.Engine.Apply(state, action)
		if outcome == domain.OutcomeNoop {
			return current, nil
		}
		return json.Marshal(next)
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Dispatch error: %v", err), http.StatusInternalServerError)
		s.logger.Error("DispatchAction failed", "action", action.Kind(), "err", err)
		return
	}
	if s.hooks.OnTransition != nil {
		s.hooks.OnTransition(r.Context(), &domain.TransitionEvent{
			Timestamp: s.Engine.Now(),
			Action:    action.Kind(),
			Outcome:   outcome,
		})
	}
	s.logger.Debug("DispatchAction", "action", action.Kind(), "outcome", outcome)
	if outcome != domain.OutcomeNoop {
		s.broadcastDiff(prev, stored)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(next); err != nil {
		s.logger.Error("DispatchAction response encode failed", "err", err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := loadSpec(r.Context()); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	} else if err != nil {
		s.logger.Error("Failed to load OpenAPI spec", "err", err)
	}

	resp := map[string]string{
		"app":         "kanban-http",
		"version":     strings.TrimSpace(kanban.Version),
		"api_version": apiVersion,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// SubscribeEvents handles GET /api/board/events (SSE). Each message is a
// BoardDiff; ?watch=cards,lanes limits which diffs are delivered.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !matchesWatch(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matchesWatch(msg string, watchList []string) bool {
	var diff domain.BoardDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "projects":
			if diff.Projects != nil {
				return true
			}
		case "lanes":
			if diff.Lanes != nil {
				return true
			}
		case "cards":
			if diff.Cards != nil {
				return true
			}
		case "versions":
			if len(diff.Versions) > 0 {
				return true
			}
		case "active":
			if diff.ActiveProjectID != nil {
				return true
			}
		case "error":
			if diff.Error != nil {
				return true
			}
		}
	}
	return false
}

func (s *Server) broadcastDiff(prev, next []byte) {
	oldState := s.decodeOrEmpty(prev)
	newState := s.decodeOrEmpty(next)
	diff := domain.Diff(oldState, newState)
	if diff == nil || diff.IsEmpty() {
		s.logger.Debug("No diff calculated")
		return
	}
	if bytes, err := json.Marshal(diff); err == nil {
		s.Streams.Broadcast(string(bytes))
	}
}

func (s *Server) decode(data []byte) (*domain.BoardState, error) {
	return normalize.Decode(data,
		normalize.WithIDGenerator(s.Engine.NewID),
		normalize.WithClock(s.Engine.Now),
	)
}

func (s *Server) decodeOrEmpty(data []byte) *domain.BoardState {
	if data == nil {
		return &domain.BoardState{}
	}
	state, err := s.decode(data)
	if err != nil {
		return &domain.BoardState{}
	}
	return state
}

func loadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
}

func writeBodyError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		http.Error(w, fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "Invalid request body", http.StatusBadRequest)
}
