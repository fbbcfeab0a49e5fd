/*
Package dsl provides a Go DSL for programmatically constructing DFA definitions.

It lets developers define an automaton with a type-safe, fluent builder instead of a DFA.txt or
YAML file. This is particularly useful for generated automata, unit tests and examples.

Example usage:

	b := dsl.New("ends-with-ab").Alphabet("a", "b")

	b.State(0).On("a", 1).On("b", 0)
	b.State(1).On("a", 1).On("b", 2)
	b.State(2).Accepting().On("a", 1).On("b", 0)

	// The resulting loader can be passed to dfa.New("", dfa.WithLoader(loader))
	loader, err := b.Build()
*/
package dsl
