package dsl

import (
	"fmt"
	"slices"

	"github.com/no-hao/DFA/pkg/domain"
)

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	id        int
	accepting bool
	targets   map[domain.Symbol]int
	builder   *Builder
}

// Accepting marks the state as accepting.
func (s *StateBuilder) Accepting() *StateBuilder {
	s.accepting = true
	return s
}

// On sets the destination when reading symbol. Declare the alphabet first.
func (s *StateBuilder) On(symbol string, to int) *StateBuilder {
	sym := domain.Symbol(symbol)
	if !slices.Contains(s.builder.alphabet, sym) {
		s.builder.errs = append(s.builder.errs, domain.Malformed("transitions",
			fmt.Sprintf("state %d: symbol %q is not in the alphabet", s.id, symbol), symbol))
		return s
	}
	s.targets[sym] = to
	return s
}

// Loop sends every symbol not yet configured back to this state.
func (s *StateBuilder) Loop() *StateBuilder {
	for _, sym := range s.builder.alphabet {
		if _, ok := s.targets[sym]; !ok {
			s.targets[sym] = s.id
		}
	}
	return s
}

// State jumps to another state, for chaining.
func (s *StateBuilder) State(id int) *StateBuilder {
	return s.builder.State(id)
}
