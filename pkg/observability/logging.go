package observability

import (
	"context"
	"log/slog"

	"github.com/no-hao/DFA/pkg/domain"
)

// LoggingHooks emits one record per lifecycle event.
// Steps are logged at Debug, run boundaries at Info. The input itself is only
// attached when Debug is enabled; at Info a run start carries its length.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			attrs := []any{"automaton", e.Automaton, "symbols", len(e.Input)}
			if logger.Enabled(ctx, slog.LevelDebug) {
				attrs = append(attrs, "input", domain.JoinSymbols(e.Input))
			}
			logger.InfoContext(ctx, "run_start", attrs...)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"automaton", e.Automaton,
				"position", e.Position,
				"symbol", e.Symbol,
				"from", e.From,
				"to", e.To,
			)
		},
		OnUnknownSymbol: func(ctx context.Context, e *domain.StepEvent) {
			logger.WarnContext(ctx, "unknown_symbol",
				"automaton", e.Automaton,
				"position", e.Position,
				"symbol", e.Symbol,
				"state", e.From,
			)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_end",
				"automaton", e.Automaton,
				"verdict", e.Verdict,
				"steps", e.Steps,
			)
		},
	}
}
