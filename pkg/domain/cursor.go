package domain

// Cursor is the mutable position of a single run over an Automaton.
// A Cursor is not safe for concurrent use; create one per run.
type Cursor struct {
	automaton *Automaton
	current   int
}

// Current returns the state the cursor is on.
func (c *Cursor) Current() State {
	return c.automaton.states[c.current]
}

// Step advances the cursor by one symbol.
// On an unknown symbol it returns *UnknownSymbolError and the cursor does not move.
func (c *Cursor) Step(sym Symbol) error {
	k, ok := c.automaton.index[sym]
	if !ok {
		return &UnknownSymbolError{Symbol: sym}
	}
	c.current = c.automaton.states[c.current].Transitions[k]
	return nil
}

// Reset moves the cursor back to the initial state.
func (c *Cursor) Reset() {
	c.current = 0
}
