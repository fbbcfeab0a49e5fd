package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/no-hao/DFA/internal/config"
	"github.com/no-hao/DFA/internal/logging"
	redisAdapter "github.com/no-hao/DFA/pkg/adapters/redis"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/observability"
	"github.com/no-hao/DFA/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const containsA = "2\n1\na b\n1 0\n1 1\n"

func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "DFA.txt")
	require.NoError(t, os.WriteFile(path, []byte(containsA), 0644))
	return path
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()

	var buf bytes.Buffer
	cfg.LogLevel = "info"
	cfg.LogFormat = "json"
	logger, err := NewLogger(cfg, &buf)
	require.NoError(t, err)
	logger.Info("hello", "error", "boom")
	assert.Contains(t, buf.String(), `"err":"boom"`)

	cfg.LogLevel = "loud"
	_, err = NewLogger(cfg, &buf)
	assert.Error(t, err)

	cfg.LogLevel = "info"
	cfg.LogFormat = "xml"
	_, err = NewLogger(cfg, &buf)
	assert.Error(t, err)
}

func TestNewSimulator(t *testing.T) {
	cfg := config.Default()
	cfg.Definition = writeDefinition(t)

	var buf bytes.Buffer
	cfg.LogLevel = "info"
	logger, err := NewLogger(cfg, &buf)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	sim, err := NewSimulator(cfg, logger, metrics)
	require.NoError(t, err)

	result := sim.SimulateString(context.Background(), "ab")
	assert.Equal(t, domain.VerdictAccepted, result.Verdict)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues(sim.Name(), "ACCEPTED")))
	assert.Contains(t, buf.String(), "run_end")
}

func TestNewSimulator_MissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Definition = filepath.Join(t.TempDir(), "missing.txt")

	_, err := NewSimulator(cfg, slogDiscard(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestNewSessions_Memory(t *testing.T) {
	manager, closeFn, err := NewSessions(context.Background(), config.Default(), slogDiscard())
	require.NoError(t, err)
	defer closeFn()

	_, err = manager.Load(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestNewSessions_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Prefix = "test:"

	manager, closeFn, err := NewSessions(context.Background(), cfg, slogDiscard())
	require.NoError(t, err)
	defer closeFn()

	res := &domain.Result{Input: []domain.Symbol{"a"}, Trace: []domain.TraceEntry{domain.Pending(1, nil)}, Verdict: domain.VerdictAccepted}
	_, err = manager.Record(context.Background(), "s1", res)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:s:s1"))
}

func TestNewSessions_RedisEncrypted(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	manager, closeFn, err := NewSessions(context.Background(), cfg, slogDiscard())
	require.NoError(t, err)
	defer closeFn()

	res := &domain.Result{Automaton: "secret", Input: []domain.Symbol{"a"}, Trace: []domain.TraceEntry{domain.Pending(1, nil)}, Verdict: domain.VerdictAccepted}
	_, err = manager.Record(context.Background(), "s1", res)
	require.NoError(t, err)

	raw, err := mr.Get(redisAdapter.DefaultPrefix + "s:s1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")
	assert.Contains(t, raw, `"sealed"`)

	loaded, err := manager.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "secret", loaded.Automaton)

	cfg.Redis.EncryptionKey = "short"
	_, _, err = NewSessions(context.Background(), cfg, slogDiscard())
	assert.Error(t, err)
}

func TestNewSessions_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Redis.Addr = addr
	_, _, err := NewSessions(context.Background(), cfg, slogDiscard())
	assert.Error(t, err)
}

func TestExportInputLimit(t *testing.T) {
	t.Setenv(runner.EnvMaxInputSize, "")
	os.Unsetenv(runner.EnvMaxInputSize)

	cfg := config.Default()
	cfg.MaxInputSize = 16
	ExportInputLimit(cfg)
	assert.Equal(t, "16", os.Getenv(runner.EnvMaxInputSize))

	// The environment wins over the config file.
	cfg.MaxInputSize = 32
	ExportInputLimit(cfg)
	assert.Equal(t, "16", os.Getenv(runner.EnvMaxInputSize))
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, HandleExecutionError(nil))
	assert.NoError(t, HandleExecutionError(context.Canceled))
	assert.NoError(t, HandleExecutionError(io.EOF))

	boom := errors.New("boom")
	assert.Equal(t, boom, HandleExecutionError(boom))
}

func TestSignalContext(t *testing.T) {
	sc := NewSignalContext(context.Background())
	assert.Nil(t, sc.Signal())
	sc.Cancel()
	<-sc.Done()
	assert.Nil(t, sc.Signal())
}

func slogDiscard() *slog.Logger {
	return logging.NewNop()
}
