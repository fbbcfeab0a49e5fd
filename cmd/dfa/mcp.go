package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/no-hao/DFA/internal/cli"
	"github.com/no-hao/DFA/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the loaded automaton to AI agents as MCP tools (simulate, describe_automaton,
get_graph) and resources (dfa://automaton, dfa://graph).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		runWith(cmd, func(a *app, w io.Writer) error {
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()
			return runMCP(ctx, a, transport, port)
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8081, "Port for the sse transport")
}

func runMCP(ctx context.Context, a *app, transport string, port int) error {
	sim, err := cli.NewSimulator(a.cfg, a.logger, nil)
	if err != nil {
		return err
	}

	sessions, closeSessions, err := cli.NewSessions(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	srv := mcp.NewServer(sim, mcp.WithSessions(sessions), mcp.WithLogger(a.logger))

	switch transport {
	case "stdio":
		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		a.logger.Info("Starting DFA MCP Server (Stdio)...")
		return srv.ServeStdio()
	case "sse":
		a.logger.Info("Starting DFA MCP Server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil {
			return err
		}
		a.logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}
}
