package runtime

import (
	"log/slog"

	"github.com/no-hao/DFA/pkg/domain"
)

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger.
// A nil logger keeps the default no-op logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}
