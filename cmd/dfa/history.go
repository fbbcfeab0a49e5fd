package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/no-hao/DFA/internal/cli"
	"github.com/no-hao/DFA/internal/presentation/trace"
	"github.com/no-hao/DFA/pkg/session"
	"github.com/spf13/cobra"
)

// errNoStore is returned when history is used without a persistent store.
var errNoStore = errors.New("history needs a persistent transcript store: set --redis or DFA_REDIS_ADDR")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded sessions",
	Long:  `List, inspect, and remove the run transcripts recorded with 'run --session' or the API.`,
}

var historyLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	Run: func(cmd *cobra.Command, args []string) {
		withHistory(cmd, func(ctx context.Context, m *session.Manager, w io.Writer) error {
			return historyList(ctx, m, w)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print the transcript of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		withHistory(cmd, func(ctx context.Context, m *session.Manager, w io.Writer) error {
			return historyShow(ctx, m, w, args[0], asJSON)
		})
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withHistory(cmd, func(ctx context.Context, m *session.Manager, w io.Writer) error {
			return historyRemove(ctx, m, w, args)
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyLsCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRmCmd)

	historyShowCmd.Flags().Bool("json", false, "Print the raw transcript as JSON")
}

func withHistory(cmd *cobra.Command, fn func(context.Context, *session.Manager, io.Writer) error) {
	runWith(cmd, func(a *app, w io.Writer) error {
		if a.cfg.Redis.Addr == "" {
			return errNoStore
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		m, closeSessions, err := cli.NewSessions(ctx, a.cfg, a.logger)
		if err != nil {
			return err
		}
		defer closeSessions()
		return fn(ctx, m, w)
	})
}

func historyList(ctx context.Context, m *session.Manager, w io.Writer) error {
	ids, err := m.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}
	fmt.Fprintln(w, "Sessions:")
	for _, id := range ids {
		fmt.Fprintln(w, "- "+id)
	}
	return nil
}

func historyShow(ctx context.Context, m *session.Manager, w io.Writer, sessionID string, asJSON bool) error {
	t, err := m.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", sessionID, err)
	}

	if asJSON {
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	fmt.Fprintf(w, "Session %s (%s), %d runs\n\n", t.SessionID, t.Automaton, len(t.Runs))
	printer := trace.NewPrinter(colorProfile(w, false))
	for i := range t.Runs {
		if err := printer.Print(w, &t.Runs[i]); err != nil {
			return err
		}
	}
	return nil
}

func historyRemove(ctx context.Context, m *session.Manager, w io.Writer, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := m.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", id)
	}
	return errors.Join(errs...)
}
