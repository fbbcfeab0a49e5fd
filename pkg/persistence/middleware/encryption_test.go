package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/no-hao/DFA/pkg/adapters/memory"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/persistence/middleware"
	"github.com/no-hao/DFA/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func seal(t *testing.T, next ports.TranscriptStore, cfg middleware.EncryptionConfig) ports.TranscriptStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return middleware.Chain(next, mw)
}

func sampleTranscript() *domain.Transcript {
	tr := domain.NewTranscript("test-session", "secret-automaton")
	tr.Append(domain.Result{
		Automaton: "secret-automaton",
		Input:     []domain.Symbol{"p", "w"},
		Trace:     []domain.TraceEntry{domain.Pending(0, []domain.Symbol{"p", "w"}), domain.Failed(0, "p")},
		Verdict:   domain.VerdictRejected,
	})
	return tr
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := seal(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunTranscriptStoreContract(t, store)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := seal(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	original := sampleTranscript()
	require.NoError(t, secure.Save(ctx, "test-session", original))

	// The underlying store only sees the envelope.
	stored, err := underlying.Load(ctx, "test-session")
	require.NoError(t, err)
	assert.Empty(t, stored.Runs)
	assert.Empty(t, stored.Automaton)
	assert.NotEmpty(t, stored.Sealed)
	assert.Equal(t, "test-session", stored.SessionID)

	loaded, err := secure.Load(ctx, "test-session")
	require.NoError(t, err)
	assert.Equal(t, "secret-automaton", loaded.Automaton)
	require.Len(t, loaded.Runs, 1)
	assert.Equal(t, original.Runs[0].Trace, loaded.Runs[0].Trace)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	oldKey, newKey := generateKey(t), generateKey(t)

	oldStore := seal(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	require.NoError(t, oldStore.Save(ctx, "s", sampleTranscript()))

	// New key only: cannot read.
	_, err := seal(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey}).Load(ctx, "s")
	assert.Error(t, err)

	// New key with the old one as fallback: can read.
	rotated := seal(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	loaded, err := rotated.Load(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, loaded.Runs, 1)
}

func TestEncryptionMiddleware_RejectsPlainTranscript(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", sampleTranscript()))

	secure := seal(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := secure.Load(ctx, "plain")
	assert.Error(t, err)
}

func TestNewEncryptionMiddleware_KeySize(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	parsed, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = middleware.ParseKey("not base64!")
	assert.Error(t, err)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}
