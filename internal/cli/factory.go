// Package cli assembles the simulator, logger and session store for the
// dfa command from a resolved config.Config.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/no-hao/DFA"
	"github.com/no-hao/DFA/internal/config"
	"github.com/no-hao/DFA/internal/logging"
	"github.com/no-hao/DFA/pkg/adapters/memory"
	redisAdapter "github.com/no-hao/DFA/pkg/adapters/redis"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/observability"
	"github.com/no-hao/DFA/pkg/persistence/middleware"
	"github.com/no-hao/DFA/pkg/ports"
	"github.com/no-hao/DFA/pkg/runner"
	"github.com/no-hao/DFA/pkg/session"
)

// NewLogger configures the application logger from cfg. It writes to w (Stderr when nil).
func NewLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format := logging.Format(cfg.LogFormat)
	switch format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return nil, fmt.Errorf("invalid log format %q: want text or json", cfg.LogFormat)
	}
	if w == nil {
		w = os.Stderr
	}
	return logging.NewWithWriter(w, level, format), nil
}

// NewSimulator loads cfg.Definition with structured-log hooks and, when metrics is set, Prometheus hooks.
func NewSimulator(cfg config.Config, logger *slog.Logger, metrics *observability.Metrics) (*dfa.Simulator, error) {
	hooks := []domain.LifecycleHooks{observability.LoggingHooks(logger)}
	if metrics != nil {
		hooks = append(hooks, metrics.Hooks())
	}

	opts := []dfa.Option{
		dfa.WithLogger(logger),
		dfa.WithLifecycleHooks(domain.ComposeHooks(hooks...)),
	}
	if cfg.Entry != "" {
		opts = append(opts, dfa.WithEntry(cfg.Entry))
	}

	sim, err := dfa.New(cfg.Definition, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", cfg.Definition, err)
	}
	return sim, nil
}

// NewSessions returns a session manager over Redis when cfg.Redis.Addr is set, in memory otherwise.
// The returned close func releases the backend.
func NewSessions(ctx context.Context, cfg config.Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	if cfg.Redis.Addr == "" {
		return session.NewManager(memory.NewStore(), session.WithLogger(logger)), func() error { return nil }, nil
	}

	var opts []redisAdapter.Option
	if cfg.Redis.Prefix != "" {
		opts = append(opts, redisAdapter.WithPrefix(cfg.Redis.Prefix))
	}
	if cfg.Redis.TTL > 0 {
		opts = append(opts, redisAdapter.WithTTL(cfg.Redis.TTL))
	}
	store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
	if err := store.Client().Ping(ctx).Err(); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	var transcripts ports.TranscriptStore = store
	if cfg.Redis.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.Redis.EncryptionKey)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		transcripts = middleware.Chain(store, mw)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = redisAdapter.DefaultPrefix
	}
	manager := session.NewManager(transcripts,
		session.WithLocker(redisAdapter.NewLocker(store.Client(), prefix)),
		session.WithLogger(logger),
	)
	logger.Info("Using redis transcript store",
		"addr", cfg.Redis.Addr,
		"prefix", prefix,
		"encrypted", cfg.Redis.EncryptionKey != "",
	)
	return manager, store.Close, nil
}

// ExportInputLimit publishes cfg.MaxInputSize to the sanitizer used by the transports,
// unless the environment already sets it.
func ExportInputLimit(cfg config.Config) {
	if _, ok := os.LookupEnv(runner.EnvMaxInputSize); ok || cfg.MaxInputSize <= 0 {
		return
	}
	os.Setenv(runner.EnvMaxInputSize, strconv.Itoa(cfg.MaxInputSize))
}

var _ ports.Simulator = (*dfa.Simulator)(nil)
