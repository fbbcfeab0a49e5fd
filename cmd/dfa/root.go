package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/no-hao/DFA/internal/cli"
	"github.com/no-hao/DFA/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dfa",
	Short: "DFA simulates deterministic finite automata",
	Long: `DFA loads a deterministic finite automaton from a definition file (DFA.txt by default)
and runs strings through it, printing the computation trace and the ACCEPTED/REJECTED verdict.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("definition", "f", "", "Definition file or catalog directory (default DFA.txt)")
	rootCmd.PersistentFlags().String("entry", "", "Definition to load from a catalog directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default dfa.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for the transcript store (host:port)")
}

// app is the resolved per-invocation environment shared by the commands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

// loadApp resolves config (file, env, then flags) and builds the logger.
func loadApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"definition": &cfg.Definition,
		"entry":      &cfg.Entry,
		"log-level":  &cfg.LogLevel,
		"redis":      &cfg.Redis.Addr,
	}
	for name, dst := range overrides {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	logger, err := cli.NewLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	cli.ExportInputLimit(cfg)

	return &app{cfg: cfg, logger: logger}, nil
}

// fail prints err in the shell's error format and exits 1.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// runWith runs fn with the resolved app and exits on error.
func runWith(cmd *cobra.Command, fn func(a *app, w io.Writer) error) {
	a, err := loadApp(cmd)
	if err != nil {
		fail(err)
	}
	if err := fn(a, cmd.OutOrStdout()); err != nil {
		fail(err)
	}
}
