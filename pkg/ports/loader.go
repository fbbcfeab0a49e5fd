package ports

import (
	"context"

	"github.com/no-hao/DFA/pkg/domain"
)

// DefinitionLoader defines how the simulator retrieves its automaton definition.
// Loaders only parse; structural validation happens in domain.Build.
type DefinitionLoader interface {
	// Load reads and decodes the definition.
	// Syntax errors are returned wrapped around domain.ErrMalformedDefinition.
	Load(ctx context.Context) (*domain.Definition, error)
}

// Catalog serves several named definitions from one backend.
type Catalog interface {
	// Get retrieves a definition by name.
	Get(ctx context.Context, name string) (*domain.Definition, error)

	// List returns the names of all definitions available in the catalog.
	List(ctx context.Context) ([]string, error)
}

// LoaderFunc adapts a plain function to the DefinitionLoader interface.
type LoaderFunc func(ctx context.Context) (*domain.Definition, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (*domain.Definition, error) {
	return f(ctx)
}

// CatalogEntry binds one catalog name to the DefinitionLoader interface.
func CatalogEntry(c Catalog, name string) DefinitionLoader {
	return LoaderFunc(func(ctx context.Context) (*domain.Definition, error) {
		return c.Get(ctx, name)
	})
}
