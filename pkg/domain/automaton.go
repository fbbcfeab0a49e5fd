package domain

import (
	"fmt"
	"slices"
)

// State is a single node of the automaton.
// Transitions[k] is the destination when reading the k-th alphabet symbol.
type State struct {
	ID          int   `json:"id"`
	Accepting   bool  `json:"accepting"`
	Transitions []int `json:"transitions"`
}

// Automaton is a validated DFA. It is read-only once built and safe for concurrent use;
// execution state lives in a Cursor.
type Automaton struct {
	name     string
	states   []State
	alphabet []Symbol
	index    map[Symbol]int
}

// Build validates def and constructs the automaton.
// Every violation is reported; the returned error wraps ErrMalformedDefinition.
func Build(def Definition) (*Automaton, error) {
	var errs []error

	n := def.NumStates
	if n < 1 {
		errs = append(errs, Malformed("states", "must be at least 1", n))
	}

	if len(def.Alphabet) == 0 {
		errs = append(errs, Malformed("alphabet", "must not be empty", nil))
	}
	index := make(map[Symbol]int, len(def.Alphabet))
	for k, sym := range def.Alphabet {
		if sym == "" {
			errs = append(errs, Malformed(fmt.Sprintf("alphabet[%d]", k), "empty symbol", nil))
			continue
		}
		if prev, dup := index[sym]; dup {
			errs = append(errs, Malformed(fmt.Sprintf("alphabet[%d]", k),
				fmt.Sprintf("duplicate of alphabet[%d]", prev), string(sym)))
			continue
		}
		index[sym] = k
	}

	accepting := make(map[int]bool, len(def.Accepting))
	for i, id := range def.Accepting {
		if id < 0 || id >= n {
			errs = append(errs, Malformed(fmt.Sprintf("accepting[%d]", i), "state id out of range", id))
			continue
		}
		accepting[id] = true
	}

	if n >= 1 {
		if len(def.Transitions) != n {
			errs = append(errs, Malformed("transitions",
				fmt.Sprintf("expected %d rows, one per state", n), len(def.Transitions)))
		}
		for id, row := range def.Transitions {
			field := fmt.Sprintf("transitions[%d]", id)
			if len(row) != len(def.Alphabet) {
				errs = append(errs, Malformed(field,
					fmt.Sprintf("expected %d entries, one per symbol", len(def.Alphabet)), len(row)))
				continue
			}
			for k, target := range row {
				if target < 0 || target >= n {
					errs = append(errs, Malformed(fmt.Sprintf("%s[%d]", field, k), "target state out of range", target))
				}
			}
		}
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}

	states := make([]State, n)
	for id := range states {
		states[id] = State{
			ID:          id,
			Accepting:   accepting[id],
			Transitions: slices.Clone(def.Transitions[id]),
		}
	}

	return &Automaton{
		name:     def.Name,
		states:   states,
		alphabet: slices.Clone(def.Alphabet),
		index:    index,
	}, nil
}

// Name returns the optional label of the definition.
func (a *Automaton) Name() string { return a.name }

// NumStates returns the number of states.
func (a *Automaton) NumStates() int { return len(a.states) }

// Initial returns the initial state (always state 0).
func (a *Automaton) Initial() State { return a.states[0] }

// State returns the state with the given id.
func (a *Automaton) State(id int) (State, bool) {
	if id < 0 || id >= len(a.states) {
		return State{}, false
	}
	return a.states[id], true
}

// States returns a copy of all states in id order.
func (a *Automaton) States() []State {
	out := make([]State, len(a.states))
	for i, s := range a.states {
		s.Transitions = slices.Clone(s.Transitions)
		out[i] = s
	}
	return out
}

// Alphabet returns a copy of the alphabet in definition order.
func (a *Automaton) Alphabet() []Symbol { return slices.Clone(a.alphabet) }

// IndexOf returns the alphabet position of sym.
func (a *Automaton) IndexOf(sym Symbol) (int, bool) {
	k, ok := a.index[sym]
	return k, ok
}

// Contains reports whether sym belongs to the alphabet.
func (a *Automaton) Contains(sym Symbol) bool {
	_, ok := a.index[sym]
	return ok
}

// Next applies the transition function to (from, sym).
func (a *Automaton) Next(from int, sym Symbol) (int, error) {
	k, ok := a.index[sym]
	if !ok {
		return 0, &UnknownSymbolError{Symbol: sym}
	}
	state, ok := a.State(from)
	if !ok {
		return 0, fmt.Errorf("state %d does not exist", from)
	}
	return state.Transitions[k], nil
}

// Definition exports the automaton back into a loader record.
func (a *Automaton) Definition() Definition {
	def := Definition{
		Name:        a.name,
		NumStates:   len(a.states),
		Alphabet:    slices.Clone(a.alphabet),
		Transitions: make([][]int, len(a.states)),
	}
	for i, s := range a.states {
		if s.Accepting {
			def.Accepting = append(def.Accepting, s.ID)
		}
		def.Transitions[i] = slices.Clone(s.Transitions)
	}
	return def
}

// Cursor returns a new cursor positioned on the initial state.
func (a *Automaton) Cursor() *Cursor {
	return &Cursor{automaton: a}
}
