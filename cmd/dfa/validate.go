package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/no-hao/DFA/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [definition]",
	Short: "Check a definition file for consistency",
	Long: `Loads the definition and reports every problem found: state count, accepting ids,
alphabet duplicates, row widths and out-of-range targets.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWith(cmd, func(a *app, w io.Writer) error {
			if len(args) > 0 {
				a.cfg.Definition = args[0]
			}
			if err := runValidate(a, w); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(a *app, w io.Writer) error {
	sim, err := cli.NewSimulator(a.cfg, a.logger, nil)
	if err != nil {
		return err
	}

	auto := sim.Automaton()
	fmt.Fprintf(w, "%s is a valid DFA ✅\n", a.cfg.Definition)
	fmt.Fprintf(w, "  states:    %d\n", auto.NumStates())
	alphabet := make([]string, 0, len(auto.Alphabet()))
	for _, sym := range auto.Alphabet() {
		alphabet = append(alphabet, string(sym))
	}
	fmt.Fprintf(w, "  alphabet:  %s\n", strings.Join(alphabet, " "))

	accepting := 0
	for _, s := range auto.States() {
		if s.Accepting {
			accepting++
		}
	}
	fmt.Fprintf(w, "  accepting: %d\n", accepting)
	return nil
}
