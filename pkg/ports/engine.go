package ports

import (
	"context"

	"github.com/no-hao/DFA/pkg/domain"
)

// Simulator is the engine surface consumed by transports (HTTP, MCP, REPL).
// Implementations hold a read-only automaton and are safe for concurrent use.
type Simulator interface {
	// Simulate runs the automaton over an already tokenized input.
	Simulate(ctx context.Context, input []domain.Symbol) *domain.Result

	// Tokenize splits raw text into symbols of the automaton's alphabet.
	Tokenize(input string) []domain.Symbol

	// Automaton returns the loaded automaton for introspection.
	Automaton() *domain.Automaton
}
