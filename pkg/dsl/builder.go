package dsl

import (
	"errors"
	"fmt"
	"slices"

	"github.com/no-hao/DFA/pkg/adapters/memory"
	"github.com/no-hao/DFA/pkg/domain"
)

// Builder manages the definition construction.
type Builder struct {
	name     string
	alphabet []domain.Symbol
	states   map[int]*StateBuilder
	errs     []error
}

// New creates a new definition builder.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		states: make(map[int]*StateBuilder),
	}
}

// Alphabet sets the input symbols, in column order.
func (b *Builder) Alphabet(symbols ...string) *Builder {
	b.alphabet = make([]domain.Symbol, len(symbols))
	for i, s := range symbols {
		b.alphabet[i] = domain.Symbol(s)
	}
	return b
}

// State returns the builder for state id, creating it on first use.
// State 0 is the initial state.
func (b *Builder) State(id int) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{
		id:      id,
		targets: make(map[domain.Symbol]int),
		builder: b,
	}
	b.states[id] = sb
	return sb
}

// Definition assembles and validates the definition.
// Missing transitions, gaps in state ids and unknown symbols are reported together.
func (b *Builder) Definition() (*domain.Definition, error) {
	errs := slices.Clone(b.errs)

	n := 0
	for id := range b.states {
		if id < 0 {
			errs = append(errs, domain.Malformed("states", "state ids must not be negative", id))
			continue
		}
		n = max(n, id+1)
	}

	def := &domain.Definition{
		Name:        b.name,
		NumStates:   n,
		Accepting:   []int{},
		Alphabet:    slices.Clone(b.alphabet),
		Transitions: make([][]int, 0, n),
	}

	for id := 0; id < n; id++ {
		sb, ok := b.states[id]
		if !ok {
			errs = append(errs, domain.Malformed("states", "state was never declared", id))
			def.Transitions = append(def.Transitions, nil)
			continue
		}
		if sb.accepting {
			def.Accepting = append(def.Accepting, id)
		}
		row := make([]int, len(b.alphabet))
		for k, sym := range b.alphabet {
			to, ok := sb.targets[sym]
			if !ok {
				errs = append(errs, domain.Malformed("transitions",
					fmt.Sprintf("state %d has no transition on %q", id, string(sym)), nil))
				continue
			}
			row[k] = to
		}
		def.Transitions = append(def.Transitions, row)
	}

	if len(errs) > 0 {
		return nil, &domain.AggregateError{Errors: errs}
	}

	// Structural checks (ranges, duplicate symbols) are the domain's.
	if _, err := domain.Build(*def); err != nil {
		return nil, err
	}
	return def, nil
}

// Build compiles the definition into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	def, err := b.Definition()
	if err != nil {
		return nil, err
	}
	if def.Name == "" {
		return nil, errors.New("failed to build memory loader: definition needs a name")
	}

	loader, err := memory.NewLoader(*def)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
