package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/no-hao/DFA/internal/runtime"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func containsA(t *testing.T) *domain.Automaton {
	t.Helper()
	a, err := domain.Build(domain.Definition{
		Name:        "contains-a",
		NumStates:   2,
		Accepting:   []int{1},
		Alphabet:    []domain.Symbol{"a", "b"},
		Transitions: [][]int{{1, 0}, {1, 1}},
	})
	require.NoError(t, err)
	return a
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(metrics.Hooks()))
	a := containsA(t)
	ctx := context.Background()

	engine.Run(ctx, a, domain.Tokenize("ab"))
	engine.Run(ctx, a, domain.Tokenize("bb"))
	engine.Run(ctx, a, domain.Tokenize("ac"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("contains-a", "ACCEPTED")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("contains-a", "REJECTED")))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.Steps.WithLabelValues("contains-a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UnknownSymbols.WithLabelValues("contains-a")))

	count, err := testutil.GatherAndCount(reg, "dfa_run_input_length")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		observability.NewMetrics(nil)
		observability.NewMetrics(nil)
	})
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(observability.LoggingHooks(logger)))

	engine.Run(context.Background(), containsA(t), domain.Tokenize("ac"))

	out := buf.String()
	assert.Contains(t, out, "msg=run_start")
	assert.Contains(t, out, "msg=step")
	assert.Contains(t, out, "msg=unknown_symbol")
	assert.Contains(t, out, "symbol=c")
	assert.Contains(t, out, "verdict=REJECTED")
}

func TestLoggingHooks_InputOnlyAtDebug(t *testing.T) {
	run := func(level slog.Level) string {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level}))
		engine := runtime.NewEngine(runtime.WithLifecycleHooks(observability.LoggingHooks(logger)))
		engine.Run(context.Background(), containsA(t), domain.Tokenize("secret"))
		return buf.String()
	}

	info := run(slog.LevelInfo)
	assert.Contains(t, info, "msg=run_start")
	assert.Contains(t, info, "symbols=6")
	assert.NotContains(t, info, "secret")

	assert.Contains(t, run(slog.LevelDebug), "input=secret")
}
