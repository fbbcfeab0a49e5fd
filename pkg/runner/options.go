package runner

import (
	"log/slog"

	"github.com/no-hao/DFA/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessions records every run in the transcript of sessionID.
func WithSessions(manager *session.Manager, sessionID string) Option {
	return func(r *Runner) {
		r.Sessions = manager
		r.SessionID = sessionID
	}
}
