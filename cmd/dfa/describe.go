package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/no-hao/DFA/internal/cli"
	"github.com/no-hao/DFA/internal/presentation/tui"
	"github.com/no-hao/DFA/pkg/adapters/text"
	yamlAdapter "github.com/no-hao/DFA/pkg/adapters/yaml"
	"github.com/no-hao/DFA/pkg/runner"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the loaded automaton",
	Long: `Prints the automaton as a markdown transition table (rendered on terminals),
or re-encodes the definition as text (DFA.txt format), yaml or json.`,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		runWith(cmd, func(a *app, w io.Writer) error {
			return runDescribe(a, w, format)
		})
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().String("format", "markdown", "Output format: markdown, text, yaml, json")
}

func runDescribe(a *app, w io.Writer, format string) error {
	sim, err := cli.NewSimulator(a.cfg, a.logger, nil)
	if err != nil {
		return err
	}
	def := sim.Automaton().Definition()

	switch format {
	case "markdown", "md":
		doc := tui.Describe(sim.Automaton())
		if runner.IsTerminal(w) {
			rendered, err := tui.NewRenderer()(doc)
			if err == nil {
				doc = rendered
			}
		}
		_, err = io.WriteString(w, doc)
		return err
	case "text", "txt":
		return text.Encode(w, def)
	case "yaml", "yml":
		data, err := yamlAdapter.Marshal(def)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(def)
	default:
		return fmt.Errorf("unknown format %q: want markdown, text, yaml or json", format)
	}
}
