package tests

import (
	"context"
	"testing"

	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DefinitionLoaderContractTest verifies that a loader yields the expected record
// and that the record builds into an automaton.
func DefinitionLoaderContractTest(t *testing.T, loader ports.DefinitionLoader, want domain.Definition) {
	t.Helper()

	t.Run("Load_Success", func(t *testing.T) {
		def, err := loader.Load(context.Background())
		require.NoError(t, err)
		require.NotNil(t, def)

		assert.Equal(t, want.NumStates, def.NumStates)
		assert.ElementsMatch(t, want.Accepting, def.Accepting)
		assert.Equal(t, want.Alphabet, def.Alphabet)
		assert.Equal(t, want.Transitions, def.Transitions)
	})

	t.Run("Load_Builds", func(t *testing.T) {
		def, err := loader.Load(context.Background())
		require.NoError(t, err)

		_, err = domain.Build(*def)
		assert.NoError(t, err)
	})
}

// CatalogContractTest is a reusable test suite that verifies if an adapter complies with ports.Catalog.
func CatalogContractTest(t *testing.T, catalog ports.Catalog, setupData map[string]domain.Definition) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for name, want := range setupData {
			def, err := catalog.Get(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting definition %s: %v", name, err)
			}
			assert.Equal(t, want.NumStates, def.NumStates, name)
			assert.ElementsMatch(t, want.Accepting, def.Accepting, name)
			assert.Equal(t, want.Alphabet, def.Alphabet, name)
			assert.Equal(t, want.Transitions, def.Transitions, name)
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := catalog.Get(ctx, "non-existent-definition")
		if err == nil {
			t.Error("expected error for non-existent definition, got nil")
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := catalog.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing definitions: %v", err)
		}

		if len(names) != len(setupData) {
			t.Errorf("expected %d definitions, got %d", len(setupData), len(names))
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range setupData {
			if !lookup[name] {
				t.Errorf("definition %s missing from list", name)
			}
		}
	})
}
