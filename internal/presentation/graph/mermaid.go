package graph

import (
	"fmt"
	"strings"

	"github.com/no-hao/DFA/pkg/domain"
)

// Overlay contains run data to highlight on the graph.
type Overlay struct {
	Visited []int
	Current int  // -1 for none
	Failed  bool // Current is the state the run halted in
}

// OverlayFromResult highlights the states a run went through.
func OverlayFromResult(r *domain.Result) *Overlay {
	o := &Overlay{Current: -1}
	for _, e := range r.Trace {
		o.Visited = append(o.Visited, e.State)
		o.Current = e.State
	}
	_, o.Failed = r.Failure()
	return o
}

// GenerateMermaid produces a Mermaid flowchart for the automaton.
// Shapes:
// - Accepting state: (((Double circle)))
// - Other states: ((Circle))
// The initial state is marked with an arrow from an invisible start point.
// Parallel edges between the same pair of states are merged into one labelled edge.
func GenerateMermaid(a *domain.Automaton, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString("    start[ ]:::hidden --> " + nodeID(a.Initial().ID) + "\n")

	alphabet := a.Alphabet()
	for _, s := range a.States() {
		opener, closer := "((", "))"
		if s.Accepting {
			opener, closer = "(((", ")))"
		}
		fmt.Fprintf(&sb, "    %s%s\"q%d\"%s\n", nodeID(s.ID), opener, s.ID, closer)

		// Merge symbols that lead to the same target, in first-seen order.
		var targets []int
		labels := make(map[int][]string)
		for k, to := range s.Transitions {
			if _, seen := labels[to]; !seen {
				targets = append(targets, to)
			}
			labels[to] = append(labels[to], escape(string(alphabet[k])))
		}
		for _, to := range targets {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(s.ID), strings.Join(labels[to], ", "), nodeID(to))
		}
	}

	sb.WriteString("    classDef hidden display:none;\n")

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, id := range overlay.Visited {
			if !seen[id] && id != overlay.Current {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(id))
			}
		}

		if overlay.Current >= 0 {
			class := "current"
			if overlay.Failed {
				class = "failed"
			}
			fmt.Fprintf(&sb, "    class %s %s;\n", nodeID(overlay.Current), class)
		}
	}

	return sb.String()
}

func nodeID(id int) string {
	return fmt.Sprintf("q%d", id)
}

// escape keeps symbols from closing the quoted edge label.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	return strings.ReplaceAll(s, "|", "#124;")
}
