package main

import (
	"context"
	"io"

	"github.com/no-hao/DFA/internal/cli"
	"github.com/no-hao/DFA/internal/presentation/graph"
	"github.com/no-hao/DFA/pkg/runner"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the state diagram",
	Long: `Outputs a Mermaid flowchart (graph LR) of the automaton.
With --input, the states visited by that run are highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		input, _ := cmd.Flags().GetString("input")
		withOverlay := cmd.Flags().Changed("input")
		runWith(cmd, func(a *app, w io.Writer) error {
			return runGraph(cmd.Context(), a, w, input, withOverlay)
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("input", "", "Highlight the run of this input")
}

func runGraph(ctx context.Context, a *app, w io.Writer, input string, withOverlay bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sim, err := cli.NewSimulator(a.cfg, a.logger, nil)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if withOverlay {
		clean, err := runner.SanitizeInputLimit(input, a.cfg.MaxInputSize)
		if err != nil {
			return err
		}
		overlay = graph.OverlayFromResult(sim.SimulateString(ctx, clean))
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(sim.Automaton(), overlay))
	return err
}
