package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/no-hao/DFA/pkg/domain"
)

// Loader implements ports.DefinitionLoader for a YAML or JSON file.
type Loader struct {
	Path string
}

// New creates a loader for the file at path.
func New(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads and decodes the file. Unnamed definitions are named after the file.
func (l *Loader) Load(ctx context.Context) (*domain.Definition, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}

	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	if def.Name == "" {
		base := filepath.Base(l.Path)
		def.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return def, nil
}

// Supports reports whether path has an extension handled by this package.
func Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
