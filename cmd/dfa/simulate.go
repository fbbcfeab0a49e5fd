package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/no-hao/DFA/internal/cli"
	"github.com/no-hao/DFA/internal/presentation/trace"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/runner"
	"github.com/spf13/cobra"
)

type simulateOptions struct {
	JSON    bool
	Symbols []string
	Strict  bool
	NoColor bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [input...]",
	Short: "Run one or more strings through the automaton",
	Long: `Prints the computation trace and verdict of each argument, like a single turn of 'run'.
Use --symbols to pass pre-tokenized input (required for multi-character alphabets with ambiguous splits).`,
	Run: func(cmd *cobra.Command, args []string) {
		var opts simulateOptions
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Symbols, _ = cmd.Flags().GetStringSlice("symbols")
		opts.Strict, _ = cmd.Flags().GetBool("strict")
		opts.NoColor, _ = cmd.Flags().GetBool("no-color")

		runWith(cmd, func(a *app, w io.Writer) error {
			return runSimulate(cmd.Context(), a, w, args, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Bool("json", false, "Print results as NDJSON")
	simulateCmd.Flags().StringSlice("symbols", nil, "Comma-separated symbols to run instead of the arguments")
	simulateCmd.Flags().Bool("strict", false, "Exit 1 if any input is rejected")
	simulateCmd.Flags().Bool("no-color", false, "Disable colored verdicts")
}

// ErrRejected is returned in strict mode when an input is not accepted.
var ErrRejected = errors.New("input rejected")

func runSimulate(ctx context.Context, a *app, w io.Writer, args []string, opts simulateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sim, err := cli.NewSimulator(a.cfg, a.logger, nil)
	if err != nil {
		return err
	}

	var inputs [][]domain.Symbol
	if len(opts.Symbols) > 0 {
		symbols := make([]domain.Symbol, len(opts.Symbols))
		for i, s := range opts.Symbols {
			symbols[i] = domain.Symbol(s)
		}
		inputs = append(inputs, symbols)
	}
	for _, arg := range args {
		clean, err := runner.SanitizeInputLimit(arg, a.cfg.MaxInputSize)
		if err != nil {
			return err
		}
		inputs = append(inputs, sim.Tokenize(clean))
	}
	if len(inputs) == 0 {
		// The empty string is a valid input.
		inputs = append(inputs, nil)
	}

	printer := trace.NewPrinter(colorProfile(w, opts.NoColor))
	enc := json.NewEncoder(w)

	rejected := 0
	for _, input := range inputs {
		result := sim.Simulate(ctx, input)
		if !result.Accepted() {
			rejected++
		}

		if opts.JSON {
			if err := enc.Encode(result); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "%sComputation…\n", runner.SystemPrefix)
		if err := printer.Print(w, result); err != nil {
			return err
		}
	}

	if opts.Strict && rejected > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRejected, rejected, len(inputs))
	}
	return nil
}
