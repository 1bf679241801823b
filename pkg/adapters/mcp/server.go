package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/internal/presentation"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// BoardURI is the resource holding the full board state.
const BoardURI = "kanban://board"

// Server exposes a Board as MCP tools.
type Server struct {
	board     *kanban.Board
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server around a loaded board.
// Every mutating tool flushes the board so changes reach the store at once.
func NewServer(board *kanban.Board, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		board:     board,
		logger:    logger,
		mcpServer: server.NewMCPServer("kanban-mcp", strings.TrimSpace(kanban.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(BoardURI, "Board State",
		mcp.WithResourceDescription("The whole board: projects, lanes, cards and version histories."),
		mcp.WithMIMEType("application/json"),
	), s.readBoard)
}

func (s *Server) readBoard(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.board.State())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      BoardURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// commit flushes after a change and renders the outcome of a verb. A guarded
// deletion is reported as a tool error and its message cleared from the board.
func (s *Server) commit(ctx context.Context, before *domain.BoardState, changed bool, noop string, result any) (*mcp.CallToolResult, error) {
	if !changed {
		return mcp.NewToolResultError(noop), nil
	}
	if after := s.board.State(); after.Error != nil && after.Error != before.Error {
		msg := *after.Error
		if msg == domain.MsgLastLane || msg == domain.MsgLastProject {
			s.board.ClearError()
			return mcp.NewToolResultError(msg), nil
		}
	}
	if err := s.board.Flush(ctx); err != nil && !errors.Is(err, domain.ErrNotLoaded) {
		s.logger.Warn("MCP: flush failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("change applied but not saved: %v", err)), nil
	}
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) view(projectID string) (presentation.BoardView, error) {
	v, ok := presentation.Build(s.board.State(), projectID)
	if !ok {
		if projectID == "" {
			return v, errors.New("no active project")
		}
		return v, fmt.Errorf("project %q not found", projectID)
	}
	return v, nil
}
