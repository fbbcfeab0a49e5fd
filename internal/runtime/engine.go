package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/no-hao/DFA/internal/logging"
	"github.com/no-hao/DFA/pkg/domain"
)

// Engine is the simulation driver. It holds no per-run state, so a single Engine
// can serve any number of automata and concurrent runs.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// NewEngine creates a new engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run walks the automaton over input and returns the full computation trace.
//
// The trace starts with the initial state and the whole input. Each consumed symbol adds one
// entry. A symbol outside the alphabet ends the run immediately with a failed entry and a
// REJECTED verdict; it is never reported as an error.
func (e *Engine) Run(ctx context.Context, a *domain.Automaton, input []domain.Symbol) *domain.Result {
	cursor := a.Cursor()
	cursor.Reset()

	result := &domain.Result{
		Automaton: a.Name(),
		Input:     append([]domain.Symbol(nil), input...),
		Trace:     make([]domain.TraceEntry, 0, len(input)+1),
	}
	// Entries are views into the run's private copy of the input, which keeps
	// a trace linear in the input length.
	result.Trace = append(result.Trace, domain.Pending(cursor.Current().ID, result.Input))

	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: e.event(domain.EventRunStart, a),
			Input:     result.Input,
		})
	}

	for i, sym := range input {
		from := cursor.Current().ID
		if err := cursor.Step(sym); err != nil {
			result.Trace = append(result.Trace, domain.Failed(from, sym))
			result.Verdict = domain.VerdictRejected

			e.logger.Debug("Unknown symbol, run halted",
				"automaton", a.Name(),
				"position", i,
				"symbol", string(sym),
				"state", from,
			)
			if e.hooks.OnUnknownSymbol != nil {
				e.hooks.OnUnknownSymbol(ctx, &domain.StepEvent{
					EventBase: e.event(domain.EventUnknownSymbol, a),
					Position:  i,
					Symbol:    sym,
					From:      from,
					To:        from,
				})
			}
			return e.finish(ctx, a, result)
		}

		to := cursor.Current().ID
		result.Trace = append(result.Trace, domain.Pending(to, result.Input[i+1:]))
		if e.hooks.OnStep != nil {
			e.hooks.OnStep(ctx, &domain.StepEvent{
				EventBase: e.event(domain.EventStep, a),
				Position:  i,
				Symbol:    sym,
				From:      from,
				To:        to,
			})
		}
	}

	if cursor.Current().Accepting {
		result.Verdict = domain.VerdictAccepted
	} else {
		result.Verdict = domain.VerdictRejected
	}
	return e.finish(ctx, a, result)
}

func (e *Engine) finish(ctx context.Context, a *domain.Automaton, result *domain.Result) *domain.Result {
	e.logger.Debug("Run finished",
		"automaton", a.Name(),
		"verdict", result.Verdict,
		"steps", result.Steps(),
	)
	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, &domain.RunEvent{
			EventBase: e.event(domain.EventRunEnd, a),
			Input:     result.Input,
			Verdict:   result.Verdict,
			Steps:     result.Steps(),
		})
	}
	return result
}

func (e *Engine) event(t domain.EventType, a *domain.Automaton) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		Automaton: a.Name(),
	}
}
