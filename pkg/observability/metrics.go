package observability

import (
	"context"

	"github.com/no-hao/DFA/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by the engine hooks.
type Metrics struct {
	Runs           *prometheus.CounterVec
	Steps          *prometheus.CounterVec
	UnknownSymbols *prometheus.CounterVec
	RunLength      *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dfa_runs_total",
				Help: "Total number of simulation runs by verdict",
			},
			[]string{"automaton", "verdict"},
		),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dfa_steps_total",
				Help: "Total number of transitions taken",
			},
			[]string{"automaton"},
		),
		UnknownSymbols: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dfa_unknown_symbols_total",
				Help: "Total number of runs aborted on a symbol outside the alphabet",
			},
			[]string{"automaton"},
		),
		RunLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dfa_run_input_length",
				Help:    "Number of symbols in the input of each run",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"automaton"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.Steps, m.UnknownSymbols, m.RunLength)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Automaton).Inc()
		},
		OnUnknownSymbol: func(_ context.Context, e *domain.StepEvent) {
			m.UnknownSymbols.WithLabelValues(e.Automaton).Inc()
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(e.Automaton, string(e.Verdict)).Inc()
			m.RunLength.WithLabelValues(e.Automaton).Observe(float64(len(e.Input)))
		},
	}
}
