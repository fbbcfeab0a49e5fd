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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/no-hao/DFA"
	"github.com/no-hao/DFA/internal/logging"
	"github.com/no-hao/DFA/internal/presentation/graph"
	"github.com/no-hao/DFA/internal/presentation/trace"
	"github.com/no-hao/DFA/internal/presentation/tui"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/ports"
	"github.com/no-hao/DFA/pkg/runner"
	"github.com/no-hao/DFA/pkg/session"
)

const (
	AutomatonURI = "dfa://automaton"
	GraphURI     = "dfa://graph"
)

// SimulateResponse aligns with the HTTP Result schema and adds the rendered trace lines.
type SimulateResponse struct {
	Automaton string              `json:"automaton,omitempty" jsonschema_description:"Name of the automaton"`
	Input     []string            `json:"input" jsonschema_description:"Symbols the run was given"`
	Trace     []domain.TraceEntry `json:"trace" jsonschema_description:"Computation trace, one entry per configuration"`
	Lines     []string            `json:"lines" jsonschema_description:"Trace rendered as state,remaining lines"`
	Verdict   string              `json:"verdict" jsonschema_description:"ACCEPTED or REJECTED"`
}

// Server wraps a Simulator and exposes it as an MCP Server.
type Server struct {
	sim       ports.Simulator
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSessions records runs that carry a session_id.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
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

// NewServer creates a new MCP Server instance.
func NewServer(sim ports.Simulator, opts ...Option) *Server {
	s := &Server{
		sim:       sim,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("dfa-mcp", strings.TrimSpace(dfa.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

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
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: simulate
	simulateTool := mcp.NewTool("simulate",
		mcp.WithDescription("Run a string through the automaton and return the computation trace and verdict."),
		mcp.WithString("input", mcp.Description("Raw input string, split into alphabet symbols")),
		mcp.WithString("symbols", mcp.Description("JSON array of pre-tokenized symbols, takes precedence over input (optional)")),
		mcp.WithString("session_id", mcp.Description("Record the run in this session's transcript (optional)")),
		mcp.WithOutputSchema[SimulateResponse](),
	)
	s.mcpServer.AddTool(simulateTool, mcp.NewStructuredToolHandler(s.handleSimulate))

	// TOOL: describe_automaton
	s.mcpServer.AddTool(mcp.NewTool("describe_automaton",
		mcp.WithDescription("Describe the loaded automaton as a markdown transition table."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(tui.Describe(s.sim.Automaton())), nil
	})

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a Mermaid flowchart of the automaton, optionally highlighting the run of an input."),
		mcp.WithString("input", mcp.Description("Highlight the states visited by this input (optional)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var overlay *graph.Overlay
		if input, ok := request.GetArguments()["input"].(string); ok {
			clean, err := runner.SanitizeInput(input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("input rejected: %v", err)), nil
			}
			overlay = graph.OverlayFromResult(s.sim.Simulate(ctx, s.sim.Tokenize(clean)))
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(s.sim.Automaton(), overlay)), nil
	})
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SimulateResponse, error) {
	var input []domain.Symbol
	if symStr, ok := args["symbols"].(string); ok && symStr != "" {
		var symbols []string
		if err := json.Unmarshal([]byte(symStr), &symbols); err != nil {
			return SimulateResponse{}, fmt.Errorf("symbols must be a JSON array of strings: %w", err)
		}
		var err error
		input, err = runner.SanitizeSymbols(symbols)
		if err != nil {
			s.logger.Warn("MCP Simulate: Symbols rejected", "error", err, "count", len(symbols))
			return SimulateResponse{}, fmt.Errorf("symbols rejected: %w", err)
		}
	} else {
		raw, _ := args["input"].(string)
		clean, err := runner.SanitizeInput(raw)
		if err != nil {
			s.logger.Warn("MCP Simulate: Input rejected", "error", err, "size", len(raw))
			return SimulateResponse{}, fmt.Errorf("input rejected: %w", err)
		}
		input = s.sim.Tokenize(clean)
	}

	result := s.sim.Simulate(ctx, input)

	if sessionID, _ := args["session_id"].(string); sessionID != "" && s.sessions != nil {
		if _, err := s.sessions.Record(ctx, sessionID, result); err != nil {
			return SimulateResponse{}, fmt.Errorf("record failed: %w", err)
		}
	}

	return toResponse(result), nil
}

func toResponse(r *domain.Result) SimulateResponse {
	input := make([]string, len(r.Input))
	for i, sym := range r.Input {
		input[i] = string(sym)
	}
	return SimulateResponse{
		Automaton: r.Automaton,
		Input:     input,
		Trace:     r.Trace,
		Lines:     trace.Lines(r),
		Verdict:   string(r.Verdict),
	}
}

func (s *Server) registerResources() {
	// EXPOSE: dfa://automaton
	s.mcpServer.AddResource(mcp.NewResource(AutomatonURI, "Loaded Automaton Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.sim.Automaton().Definition())
		if err != nil {
			return nil, fmt.Errorf("failed to encode automaton: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      AutomatonURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: dfa://graph
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Automaton State Diagram",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(s.sim.Automaton(), nil),
			},
		}, nil
	})
}
