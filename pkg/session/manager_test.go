package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/no-hao/DFA/pkg/adapters/memory"
	"github.com/no-hao/DFA/pkg/adapters/redis"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Transcript
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, transcript *domain.Transcript) error {
	time.Sleep(time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Transcript)
	}
	s.data[sessionID] = transcript.Snapshot()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Transcript, error) {
	time.Sleep(time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if transcript, ok := s.data[sessionID]; ok {
		return transcript.Snapshot(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func result(verdict domain.Verdict) *domain.Result {
	return &domain.Result{
		Automaton: "contains-a",
		Input:     []domain.Symbol{"a"},
		Trace: []domain.TraceEntry{
			domain.Pending(0, []domain.Symbol{"a"}),
			domain.Pending(1, nil),
		},
		Verdict: verdict,
	}
}

func TestManager_Record_CreatesTranscript(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	transcript, err := manager.Record(ctx, "s1", result(domain.VerdictAccepted))
	require.NoError(t, err)
	assert.Equal(t, "s1", transcript.SessionID)
	assert.Equal(t, "contains-a", transcript.Automaton)
	require.Len(t, transcript.Runs, 1)

	_, err = manager.Record(ctx, "s1", result(domain.VerdictRejected))
	require.NoError(t, err)

	loaded, err := manager.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, loaded.Runs, 2)
	assert.Equal(t, domain.VerdictRejected, loaded.Runs[1].Verdict)
}

func TestManager_Record_SerializesWriters(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()
	id := "race-test"
	writers := 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Record(ctx, id, result(domain.VerdictAccepted))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Without locking, concurrent read-modify-write cycles would drop runs.
	transcript, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, transcript.Runs, writers)
}

func TestManager_Delete(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Record(ctx, "gone", result(domain.VerdictAccepted))
	require.NoError(t, err)
	require.NoError(t, manager.Delete(ctx, "gone"))

	_, err = manager.Load(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_WithDistributedLocker(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store := redis.New(mr.Addr(), "", 0)
	defer store.Close()

	manager := session.NewManager(store,
		session.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix)),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Record(ctx, "shared", result(domain.VerdictAccepted))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	transcript, err := manager.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, transcript.Runs, 5)
	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:shared"), "lock must be released")
}
