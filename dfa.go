package dfa

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/no-hao/DFA/internal/logging"
	"github.com/no-hao/DFA/internal/runtime"
	loamAdapter "github.com/no-hao/DFA/pkg/adapters/loam"
	"github.com/no-hao/DFA/pkg/adapters/text"
	yamlAdapter "github.com/no-hao/DFA/pkg/adapters/yaml"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/ports"
)

// Simulator is the high-level entry point of the library.
// It pairs a compiled automaton with the engine that runs it.
type Simulator struct {
	engine    *runtime.Engine
	automaton *domain.Automaton
	tokenize  func(string) []domain.Symbol

	loader ports.DefinitionLoader
	entry  string
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	Source string
}

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithLoader injects a custom DefinitionLoader, bypassing file loading.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(s *Simulator) {
		s.loader = l
	}
}

// WithEntry selects the definition to load when the source is a catalog directory.
func WithEntry(name string) Option {
	return func(s *Simulator) {
		s.entry = name
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithTokenizer overrides how raw strings are split into symbols.
func WithTokenizer(fn func(string) []domain.Symbol) Option {
	return func(s *Simulator) {
		s.tokenize = fn
	}
}

// New loads the definition at source, validates it and returns a ready Simulator.
// If WithLoader is provided, source is only used as a label and may be empty.
func New(source string, opts ...Option) (*Simulator, error) {
	sim := &Simulator{Source: source}
	for _, opt := range opts {
		opt(sim)
	}

	if sim.logger == nil {
		sim.logger = logging.NewNop()
	}

	if sim.loader == nil {
		loader, err := loaderFor(context.Background(), source, sim.entry)
		if err != nil {
			return nil, err
		}
		sim.loader = loader
	}

	def, err := sim.loader.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load definition: %w", err)
	}

	automaton, err := domain.Build(*def)
	if err != nil {
		return nil, err
	}
	sim.automaton = automaton
	sim.logger = sim.logger.With("automaton", automaton.Name())

	if sim.tokenize == nil {
		sim.tokenize = defaultTokenizer(automaton.Alphabet())
	}

	sim.engine = runtime.NewEngine(
		runtime.WithLogger(sim.logger),
		runtime.WithLifecycleHooks(sim.hooks),
	)

	sim.logger.Debug("Automaton loaded",
		"source", source,
		"states", automaton.NumStates(),
		"alphabet", domain.JoinSymbols(automaton.Alphabet()),
	)
	return sim, nil
}

func loaderFor(ctx context.Context, source, entry string) (ports.DefinitionLoader, error) {
	if source == "" {
		source = text.DefaultPath
	}

	info, err := os.Stat(source)
	if err == nil && info.IsDir() {
		catalog, err := loamAdapter.Open(source)
		if err != nil {
			return nil, err
		}
		if entry == "" {
			names, err := catalog.List(ctx)
			if err != nil {
				return nil, err
			}
			if len(names) != 1 {
				return nil, fmt.Errorf("catalog %s holds %d definitions, select one with an entry name: %v", source, len(names), names)
			}
			entry = names[0]
		}
		return ports.CatalogEntry(catalog, entry), nil
	}

	if yamlAdapter.Supports(source) {
		return yamlAdapter.New(source), nil
	}
	return text.New(source), nil
}

// defaultTokenizer splits per rune unless some symbol spans several runes.
func defaultTokenizer(alphabet []domain.Symbol) func(string) []domain.Symbol {
	for _, sym := range alphabet {
		if utf8.RuneCountInString(string(sym)) > 1 {
			return func(s string) []domain.Symbol {
				return domain.TokenizeWith(s, alphabet)
			}
		}
	}
	return domain.Tokenize
}

// Simulate runs the automaton over already tokenized input.
func (s *Simulator) Simulate(ctx context.Context, input []domain.Symbol) *domain.Result {
	return s.engine.Run(ctx, s.automaton, input)
}

// SimulateString tokenizes input and runs it.
func (s *Simulator) SimulateString(ctx context.Context, input string) *domain.Result {
	return s.Simulate(ctx, s.Tokenize(input))
}

// Tokenize splits raw text into symbols.
func (s *Simulator) Tokenize(input string) []domain.Symbol {
	return s.tokenize(input)
}

// Automaton returns the compiled automaton.
func (s *Simulator) Automaton() *domain.Automaton {
	return s.automaton
}

// Name returns the automaton name.
func (s *Simulator) Name() string {
	return s.automaton.Name()
}

// Logger returns the logger bound to this simulator.
func (s *Simulator) Logger() *slog.Logger {
	return s.logger
}
