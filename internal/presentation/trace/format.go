// Package trace renders computation traces as the line-oriented transcript shown by the shell:
//
//	0,ab -> 1,b
//	1,b -> 1,{e}
//	ACCEPTED
package trace

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/no-hao/DFA/pkg/domain"
)

// EmptyMarker stands for an exhausted input.
const EmptyMarker = "{e}"

// InvalidInput replaces the destination of a transition on an unknown symbol.
const InvalidInput = "INVALID INPUT"

// Lines returns one line per transition of the trace.
// A run halted on an unknown symbol ends with "state,remaining -> INVALID INPUT".
func Lines(r *domain.Result) []string {
	if len(r.Trace) < 2 {
		return nil
	}
	lines := make([]string, 0, len(r.Trace)-1)
	for i := 0; i < len(r.Trace)-1; i++ {
		from, to := r.Trace[i], r.Trace[i+1]
		if to.Kind == domain.EntryFailed {
			lines = append(lines, fmt.Sprintf("%s -> %s", entry(from), InvalidInput))
			break
		}
		lines = append(lines, fmt.Sprintf("%s -> %s", entry(from), entry(to)))
	}
	return lines
}

func entry(e domain.TraceEntry) string {
	remaining := domain.JoinSymbols(e.Remaining)
	if remaining == "" {
		remaining = EmptyMarker
	}
	return fmt.Sprintf("%d,%s", e.State, remaining)
}

// Printer writes traces and verdicts, coloring the verdict when the profile allows it.
type Printer struct {
	profile termenv.Profile
}

// NewPrinter creates a printer. Use termenv.Ascii to disable colors.
func NewPrinter(profile termenv.Profile) *Printer {
	return &Printer{profile: profile}
}

// Verdict returns the (possibly colored) verdict word.
func (p *Printer) Verdict(v domain.Verdict) string {
	color := "#22c55e"
	if v != domain.VerdictAccepted {
		color = "#ef4444"
	}
	return p.profile.String(string(v)).Foreground(p.profile.Color(color)).Bold().String()
}

// Print writes the transition lines, the verdict and a blank separator line.
func (p *Printer) Print(w io.Writer, r *domain.Result) error {
	for _, line := range Lines(r) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s\n\n", p.Verdict(r.Verdict))
	return err
}
