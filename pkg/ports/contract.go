package ports

import (
	"context"
	"testing"
	"time"

	"github.com/no-hao/DFA/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTranscriptStoreContract runs a suite of tests to verify that a TranscriptStore implementation
// adheres to the defined interface contract.
func RunTranscriptStoreContract(t *testing.T, store TranscriptStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	sample := domain.Result{
		Automaton: "contract",
		Input:     []domain.Symbol{"a", "c"},
		Trace: []domain.TraceEntry{
			domain.Pending(0, []domain.Symbol{"a", "c"}),
			domain.Pending(1, []domain.Symbol{"c"}),
			domain.Failed(1, "c"),
		},
		Verdict: domain.VerdictRejected,
	}

	t.Run("Save and Load", func(t *testing.T) {
		transcript := domain.NewTranscript(sessionID, "contract")
		transcript.Append(sample)

		err := store.Save(ctx, sessionID, transcript)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.SessionID)
		assert.Equal(t, "contract", loaded.Automaton)
		require.Len(t, loaded.Runs, 1)
		assert.Equal(t, sample.Trace, loaded.Runs[0].Trace)
		assert.Equal(t, domain.VerdictRejected, loaded.Runs[0].Verdict)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Isolation", func(t *testing.T) {
		transcript := domain.NewTranscript(sessionID, "contract")
		require.NoError(t, store.Save(ctx, sessionID, transcript))

		// Mutating the saved value must not leak into the store.
		transcript.Append(sample)

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Runs)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewTranscript(sessionID, "contract"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("Reserved-Looking IDs", func(t *testing.T) {
		ids := []string{"index", "lock:" + sessionID}
		for _, id := range ids {
			require.NoError(t, store.Save(ctx, id, domain.NewTranscript(id, "contract")), "id %q", id)
		}
		defer func() {
			for _, id := range ids {
				_ = store.Delete(ctx, id)
			}
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		for _, id := range ids {
			assert.Contains(t, sessions, id)
			loaded, err := store.Load(ctx, id)
			require.NoError(t, err, "id %q", id)
			assert.Equal(t, id, loaded.SessionID)
		}
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewTranscript(id1, "contract"))
		_ = store.Save(ctx, id2, domain.NewTranscript(id2, "contract"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
