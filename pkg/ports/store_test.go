package ports_test

import (
	"context"
	"testing"

	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockStore is a map-backed TranscriptStore used to exercise the contract itself.
type MockStore struct {
	data map[string]*domain.Transcript
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Transcript),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, t *domain.Transcript) error {
	m.data[sessionID] = t.Snapshot()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Transcript, error) {
	t, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return t.Snapshot(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestTranscriptStore_Contract(t *testing.T) {
	ports.RunTranscriptStoreContract(t, NewMockStore())
}

func TestCatalogEntry(t *testing.T) {
	catalog := mockCatalog{"one": {NumStates: 1}}

	def, err := ports.CatalogEntry(catalog, "one").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, def.NumStates)

	_, err = ports.CatalogEntry(catalog, "two").Load(context.Background())
	assert.Error(t, err)
}

type mockCatalog map[string]domain.Definition

func (c mockCatalog) Get(ctx context.Context, name string) (*domain.Definition, error) {
	def, ok := c[name]
	if !ok {
		return nil, assert.AnError
	}
	return &def, nil
}

func (c mockCatalog) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	return names, nil
}
