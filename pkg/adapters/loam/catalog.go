// Package loam serves a directory of DFA definitions through the Loam document store.
//
// A definition is either carried in a document's frontmatter (the same keys the
// yaml adapter accepts) or, when the frontmatter holds no definition, in the
// document body using the DFA.txt text format:
//
//	---
//	name: contains-a
//	---
//	2
//	1
//	a b
//	1 0
//	1 1
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/no-hao/DFA/pkg/adapters/text"
	yamladapter "github.com/no-hao/DFA/pkg/adapters/yaml"
	"github.com/no-hao/DFA/pkg/domain"
)

// Catalog adapts a Loam repository to the ports.Catalog interface.
type Catalog struct {
	Repo *loam.TypedRepository[DefinitionMetadata]
}

// New creates a catalog over an existing typed repository.
func New(repo *loam.TypedRepository[DefinitionMetadata]) *Catalog {
	return &Catalog{Repo: repo}
}

// Open initializes a read-only Loam repository rooted at dir.
func Open(dir string) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across Markdown, YAML and JSON documents.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[DefinitionMetadata](repo)), nil
}

// Get retrieves a definition by document id (with or without extension).
func (c *Catalog) Get(ctx context.Context, name string) (*domain.Definition, error) {
	doc, err := c.Repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}

	var def *domain.Definition
	if doc.Data.empty() {
		def, err = text.Parse(strings.NewReader(strings.TrimLeft(doc.Content, "\r\n")))
	} else {
		def, err = yamladapter.Decode(doc.Data.raw())
	}
	if err != nil {
		return nil, fmt.Errorf("definition %s: %w", name, err)
	}

	def.Name = doc.Data.Name
	if def.Name == "" {
		def.Name = trimExtension(doc.ID)
	}
	return def, nil
}

// List returns the ids of all documents, extensions stripped.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := trimExtension(doc.ID)
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID
		names = append(names, id)
	}
	sort.Strings(names)
	return names, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
