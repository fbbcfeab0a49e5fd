package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDefinition is returned when a definition violates a structural invariant.
// The automaton is never constructed in that case.
var ErrMalformedDefinition = errors.New("malformed definition")

// ErrUnknownSymbol is returned by Cursor.Step when a symbol is not part of the alphabet.
var ErrUnknownSymbol = errors.New("unknown symbol")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// DefinitionError represents a single invariant violation in a Definition.
type DefinitionError struct {
	Field  string // Definition field (or "line N" for text sources)
	Reason string // Human-readable reason for failure
	Value  any    // The offending value, if any
}

func (e *DefinitionError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s: %s", ErrMalformedDefinition, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s (got %v)", ErrMalformedDefinition, e.Field, e.Reason, e.Value)
}

// Unwrap allows errors.Is(err, ErrMalformedDefinition).
func (e *DefinitionError) Unwrap() error {
	return ErrMalformedDefinition
}

// Malformed is a shorthand for building a DefinitionError.
func Malformed(field, reason string, value any) *DefinitionError {
	return &DefinitionError{Field: field, Reason: reason, Value: value}
}

// AggregateError represents multiple definition failures found in one pass.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d definition errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is / errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// DefinitionErrors returns all failures if err is an AggregateError.
// Otherwise returns nil.
func DefinitionErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// UnknownSymbolError reports the symbol that is absent from the alphabet.
type UnknownSymbolError struct {
	Symbol Symbol
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownSymbol, string(e.Symbol))
}

// Unwrap allows errors.Is(err, ErrUnknownSymbol).
func (e *UnknownSymbolError) Unwrap() error {
	return ErrUnknownSymbol
}
