package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/no-hao/DFA/internal/cli"
	"github.com/no-hao/DFA/internal/presentation/trace"
	"github.com/no-hao/DFA/internal/presentation/tui"
	"github.com/no-hao/DFA/pkg/runner"
	"github.com/spf13/cobra"
)

type runOptions struct {
	JSON      bool
	SessionID string
	NoColor   bool
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate strings interactively",
	Long: `Loads the definition and prompts for strings until 'Quit' or end of input.
Every string is printed with its computation trace and verdict.`,
	Run: func(cmd *cobra.Command, args []string) {
		var opts runOptions
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.NoColor, _ = cmd.Flags().GetBool("no-color")

		runWith(cmd, func(a *app, w io.Writer) error {
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()
			return runInteractive(ctx, a, cmd.InOrStdin(), w, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON output, no prompts)")
	runCmd.Flags().String("session", "", "Record every run in this session's transcript")
	runCmd.Flags().Bool("no-color", false, "Disable colored verdicts")

	// 'run' is the default when no command is given
	rootCmd.Run = runCmd.Run
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

func runInteractive(ctx context.Context, a *app, in io.Reader, w io.Writer, opts runOptions) error {
	interactive := runner.Interactive(in, w)

	if !opts.JSON {
		if interactive {
			tui.PrintBanner(w, colorProfile(w, opts.NoColor))
		}
		fmt.Fprintf(w, "%sLoading %s…\n", runner.SystemPrefix, a.cfg.Definition)
	}

	sim, err := cli.NewSimulator(a.cfg, a.logger, nil)
	if err != nil {
		return err
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, w)
	} else {
		handler = runner.NewTextHandler(in, w,
			runner.WithTextHandlerPrinter(trace.NewPrinter(colorProfile(w, opts.NoColor))),
			runner.WithTextHandlerMaxInputSize(a.cfg.MaxInputSize),
		)
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(a.logger),
		runner.WithInputHandler(handler),
	}
	if opts.SessionID != "" {
		sessions, closeSessions, err := cli.NewSessions(ctx, a.cfg, a.logger)
		if err != nil {
			return err
		}
		defer closeSessions()
		runnerOpts = append(runnerOpts, runner.WithSessions(sessions, opts.SessionID))
		a.logger.Info("Session active", "session_id", opts.SessionID)
	}

	return cli.HandleExecutionError(runner.NewRunner(sim, runnerOpts...).Run(ctx))
}

// colorProfile returns the terminal's color profile, or Ascii when w is not a terminal.
func colorProfile(w io.Writer, noColor bool) termenv.Profile {
	if noColor || !runner.IsTerminal(w) {
		return termenv.Ascii
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}
