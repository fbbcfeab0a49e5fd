package domain

import "slices"

// Verdict is the final classification of a run.
type Verdict string

const (
	VerdictAccepted Verdict = "ACCEPTED"
	VerdictRejected Verdict = "REJECTED"
)

// EntryKind tags a trace entry so consumers never have to sniff sentinel strings.
type EntryKind string

const (
	EntryPending   EntryKind = "pending"   // Symbols remain to be consumed
	EntryExhausted EntryKind = "exhausted" // All input consumed
	EntryFailed    EntryKind = "failed"    // Run halted on a symbol outside the alphabet
)

// TraceEntry pairs the state of the automaton with the input that is still to be read.
type TraceEntry struct {
	Kind EntryKind `json:"kind"`

	// State is the current state id. For failed entries it is the state the run halted in.
	State int `json:"state"`

	// Remaining holds the unconsumed symbols (pending entries only).
	Remaining []Symbol `json:"remaining,omitempty"`

	// Symbol is the offending symbol (failed entries only).
	Symbol Symbol `json:"symbol,omitempty"`
}

// Pending builds an entry for state with the given unconsumed input.
// An empty remainder yields an exhausted entry. The entry shares remaining's
// backing array, so a run's entries are all views into one input slice.
func Pending(state int, remaining []Symbol) TraceEntry {
	if len(remaining) == 0 {
		return TraceEntry{Kind: EntryExhausted, State: state}
	}
	return TraceEntry{Kind: EntryPending, State: state, Remaining: remaining}
}

// Failed builds the terminal entry of a run aborted on sym.
func Failed(state int, sym Symbol) TraceEntry {
	return TraceEntry{Kind: EntryFailed, State: state, Symbol: sym}
}

// Result is the outcome of one simulation run.
type Result struct {
	Automaton string       `json:"automaton,omitempty"`
	Input     []Symbol     `json:"input"`
	Trace     []TraceEntry `json:"trace"`
	Verdict   Verdict      `json:"verdict"`
}

// Accepted reports whether the verdict is ACCEPTED.
func (r *Result) Accepted() bool {
	return r.Verdict == VerdictAccepted
}

// Failure returns the terminal failed entry, if the run was aborted.
func (r *Result) Failure() (TraceEntry, bool) {
	if len(r.Trace) == 0 {
		return TraceEntry{}, false
	}
	last := r.Trace[len(r.Trace)-1]
	return last, last.Kind == EntryFailed
}

// Steps returns the number of symbols that were consumed.
func (r *Result) Steps() int {
	n := len(r.Trace) - 1
	if _, failed := r.Failure(); failed {
		n--
	}
	return max(n, 0)
}

// Clone returns a deep copy of the result.
// Remainders that are suffixes of Input are re-sliced from the copied input
// rather than copied one by one.
func (r *Result) Clone() Result {
	out := *r
	out.Input = slices.Clone(r.Input)
	out.Trace = make([]TraceEntry, len(r.Trace))
	for i, e := range r.Trace {
		if off, ok := suffixOffset(r.Input, e.Remaining); ok {
			e.Remaining = out.Input[off:]
		} else {
			e.Remaining = slices.Clone(e.Remaining)
		}
		out.Trace[i] = e
	}
	return out
}

// suffixOffset reports where rest starts in input when rest is a view of input's tail.
func suffixOffset(input, rest []Symbol) (int, bool) {
	n, m := len(input), len(rest)
	if m == 0 || m > n || &input[n-m] != &rest[0] {
		return 0, false
	}
	return n - m, true
}
