package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/no-hao/DFA/internal/logging"
	"github.com/no-hao/DFA/pkg/ports"
	"github.com/no-hao/DFA/pkg/session"
)

// QuitCommand ends the loop, compared case-insensitively.
const QuitCommand = "quit"

// GoodbyeMessage is sent through SystemOutput on quit.
const GoodbyeMessage = "Goodbye!"

// Runner handles the read-evaluate loop using the provided IO strategy.
type Runner struct {
	Simulator ports.Simulator
	Handler   IOHandler
	Logger    *slog.Logger

	// Sessions persists run history. If nil, runs are not recorded.
	Sessions  *session.Manager
	SessionID string
}

// NewRunner creates a Runner for sim. Without WithInputHandler it uses a TextHandler on Stdin/Stdout.
func NewRunner(sim ports.Simulator, opts ...Option) *Runner {
	r := &Runner{
		Simulator: sim,
		Logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// IsQuit reports whether line asks to leave the loop.
func IsQuit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), QuitCommand)
}

// Run loops until quit, EOF or cancellation.
// EOF and quit return nil; cancellation returns the context error.
// A handler that is an io.Closer is closed when Run returns.
func (r *Runner) Run(ctx context.Context) error {
	if c, ok := r.Handler.(io.Closer); ok {
		defer c.Close()
	}
	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		if IsQuit(line) {
			return r.Handler.SystemOutput(ctx, GoodbyeMessage)
		}

		result := r.Simulator.Simulate(ctx, r.Simulator.Tokenize(line))

		if err := r.Handler.Output(ctx, result); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		if r.Sessions != nil && r.SessionID != "" {
			if _, err := r.Sessions.Record(ctx, r.SessionID, result); err != nil {
				// History is best effort; the shell keeps going.
				r.Logger.Warn("Failed to record run",
					"session_id", r.SessionID,
					"err", err,
				)
			}
		}
	}
}
