package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/no-hao/DFA/pkg/domain"
)

// Loader implements ports.DefinitionLoader and ports.Catalog over in-memory definitions.
// The first definition passed to NewLoader is the one returned by Load.
type Loader struct {
	defs    map[string]domain.Definition
	primary string
}

// NewLoader creates a loader from domain records.
// Every definition needs a unique, non-empty Name.
func NewLoader(defs ...domain.Definition) (*Loader, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("at least one definition is required")
	}
	l := &Loader{
		defs:    make(map[string]domain.Definition, len(defs)),
		primary: defs[0].Name,
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("definition missing name")
		}
		if _, dup := l.defs[d.Name]; dup {
			return nil, fmt.Errorf("duplicate definition name: %s", d.Name)
		}
		l.defs[d.Name] = clone(d)
	}
	return l, nil
}

// Load returns the primary definition.
func (l *Loader) Load(ctx context.Context) (*domain.Definition, error) {
	return l.Get(ctx, l.primary)
}

// Get retrieves a definition by name.
func (l *Loader) Get(ctx context.Context, name string) (*domain.Definition, error) {
	d, ok := l.defs[name]
	if !ok {
		return nil, fmt.Errorf("definition not found: %s", name)
	}
	out := clone(d)
	return &out, nil
}

// List returns all available definition names.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

func clone(d domain.Definition) domain.Definition {
	d.Accepting = slices.Clone(d.Accepting)
	d.Alphabet = slices.Clone(d.Alphabet)
	rows := make([][]int, len(d.Transitions))
	for i, r := range d.Transitions {
		rows[i] = slices.Clone(r)
	}
	d.Transitions = rows
	return d
}
