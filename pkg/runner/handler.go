package runner

import (
	"context"

	"github.com/no-hao/DFA/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI) and JSON (structured) modes.
type IOHandler interface {
	// Input reads the next string to evaluate. It returns io.EOF when the source is exhausted.
	Input(ctx context.Context) (string, error)

	// Output presents the outcome of one run.
	Output(ctx context.Context, result *domain.Result) error

	// SystemOutput presents a meta-message (loading, goodbye) distinct from results.
	SystemOutput(ctx context.Context, msg string) error
}
