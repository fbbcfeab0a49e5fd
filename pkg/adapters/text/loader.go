package text

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/no-hao/DFA/pkg/domain"
)

// DefaultPath is the definition file read when nothing else is configured.
const DefaultPath = "DFA.txt"

// Loader implements ports.DefinitionLoader for a file in the text format.
type Loader struct {
	Path string
}

// New creates a loader for the file at path.
func New(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads and parses the file.
// The definition is named after the file, without its extension.
func (l *Loader) Load(ctx context.Context) (*domain.Definition, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open definition: %w", err)
	}
	defer f.Close()

	def, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	base := filepath.Base(l.Path)
	def.Name = strings.TrimSuffix(base, filepath.Ext(base))
	return def, nil
}
