package tui

import (
	"fmt"
	"strings"

	"github.com/no-hao/DFA/pkg/domain"
)

// Describe renders the automaton as a markdown document with its transition table.
// The initial state is marked with an arrow and accepting states with an asterisk.
func Describe(a *domain.Automaton) string {
	var sb strings.Builder

	name := a.Name()
	if name == "" {
		name = "DFA"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)

	alphabet := a.Alphabet()
	symbols := make([]string, len(alphabet))
	for i, s := range alphabet {
		symbols[i] = "`" + string(s) + "`"
	}

	var accepting []string
	for _, s := range a.States() {
		if s.Accepting {
			accepting = append(accepting, fmt.Sprintf("q%d", s.ID))
		}
	}
	if len(accepting) == 0 {
		accepting = []string{"none"}
	}

	fmt.Fprintf(&sb, "- **States:** %d\n", a.NumStates())
	fmt.Fprintf(&sb, "- **Alphabet:** %s\n", strings.Join(symbols, ", "))
	fmt.Fprintf(&sb, "- **Initial:** q%d\n", a.Initial().ID)
	fmt.Fprintf(&sb, "- **Accepting:** %s\n\n", strings.Join(accepting, ", "))

	sb.WriteString("| state |")
	for _, s := range symbols {
		sb.WriteString(" " + s + " |")
	}
	sb.WriteString("\n|---|")
	sb.WriteString(strings.Repeat("---|", len(symbols)))
	sb.WriteString("\n")

	for _, s := range a.States() {
		label := fmt.Sprintf("q%d", s.ID)
		if s.ID == a.Initial().ID {
			label = "→ " + label
		}
		if s.Accepting {
			label += " *"
		}
		fmt.Fprintf(&sb, "| %s |", label)
		for _, to := range s.Transitions {
			fmt.Fprintf(&sb, " q%d |", to)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
