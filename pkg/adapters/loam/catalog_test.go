package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/ports"
	"github.com/no-hao/DFA/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Catalog = (*Catalog)(nil)

func seed(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

const frontmatterDoc = `---
name: contains-a
states: 2
accepting: [1]
alphabet: [a, b]
transitions:
  - [1, 0]
  - [1, 1]
---
Accepts every string over {a, b} that contains an a.`

const bodyDoc = `---
name: parity
---
2
0
0 1
0 1
1 0
`

func TestCatalog_Contract(t *testing.T) {
	dir := seed(t, map[string]string{
		"contains-a.md": frontmatterDoc,
		"parity.md":     bodyDoc,
	})

	catalog, err := Open(dir)
	require.NoError(t, err)

	tests.CatalogContractTest(t, catalog, map[string]domain.Definition{
		"contains-a": {
			NumStates:   2,
			Accepting:   []int{1},
			Alphabet:    []domain.Symbol{"a", "b"},
			Transitions: [][]int{{1, 0}, {1, 1}},
		},
		"parity": {
			NumStates:   2,
			Accepting:   []int{0},
			Alphabet:    []domain.Symbol{"0", "1"},
			Transitions: [][]int{{0, 1}, {1, 0}},
		},
	})
}

func TestCatalog_Get_NamesAndBuilds(t *testing.T) {
	dir := seed(t, map[string]string{"contains-a.md": frontmatterDoc})
	catalog, err := Open(dir)
	require.NoError(t, err)

	def, err := catalog.Get(context.Background(), "contains-a")
	require.NoError(t, err)
	assert.Equal(t, "contains-a", def.Name)

	a, err := domain.Build(*def)
	require.NoError(t, err)
	assert.Equal(t, 2, a.NumStates())
}

func TestCatalog_Get_Malformed(t *testing.T) {
	dir := seed(t, map[string]string{"broken.md": "---\nname: broken\n---\nnot-a-number\n"})
	catalog, err := Open(dir)
	require.NoError(t, err)

	_, err = catalog.Get(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrMalformedDefinition)
}

func TestCatalog_EntryAsLoader(t *testing.T) {
	dir := seed(t, map[string]string{"contains-a.md": frontmatterDoc})
	catalog, err := Open(dir)
	require.NoError(t, err)

	tests.DefinitionLoaderContractTest(t, ports.CatalogEntry(catalog, "contains-a"), domain.Definition{
		NumStates:   2,
		Accepting:   []int{1},
		Alphabet:    []domain.Symbol{"a", "b"},
		Transitions: [][]int{{1, 0}, {1, 1}},
	})
}
