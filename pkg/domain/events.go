package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart      EventType = "run_start"
	EventStep          EventType = "step"
	EventUnknownSymbol EventType = "unknown_symbol"
	EventRunEnd        EventType = "run_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Automaton string    `json:"automaton,omitempty"`
}

// RunEvent marks the beginning or the end of a run.
type RunEvent struct {
	EventBase
	Input   []Symbol `json:"input"`
	Verdict Verdict  `json:"verdict,omitempty"` // Set on run_end only
	Steps   int      `json:"steps"`
}

// StepEvent describes one symbol being read (or rejected).
type StepEvent struct {
	EventBase
	Position int    `json:"position"`
	Symbol   Symbol `json:"symbol"`
	From     int    `json:"from"`
	To       int    `json:"to"` // Equals From for unknown_symbol
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart      func(context.Context, *RunEvent)
	OnStep          func(context.Context, *StepEvent)
	OnUnknownSymbol func(context.Context, *StepEvent)
	OnRunEnd        func(context.Context, *RunEvent)
}

// ComposeHooks fans every callback out to all non-nil hooks, in order.
func ComposeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnStep: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnStep != nil {
					h.OnStep(ctx, e)
				}
			}
		},
		OnUnknownSymbol: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnUnknownSymbol != nil {
					h.OnUnknownSymbol(ctx, e)
				}
			}
		},
		OnRunEnd: func(ctx context.Context, e *RunEvent) {
			for _, h := range hooks {
				if h.OnRunEnd != nil {
					h.OnRunEnd(ctx, e)
				}
			}
		},
	}
}
