package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/no-hao/DFA/internal/logging"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock may outlive a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates transcript access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.TranscriptStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Manager with the given persistence store.
func NewManager(store ports.TranscriptStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Record appends a finished run to the session's transcript, creating it on first use.
func (m *Manager) Record(ctx context.Context, sessionID string, result *domain.Result) (*domain.Transcript, error) {
	var transcript *domain.Transcript
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		transcript, err = m.store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			transcript = domain.NewTranscript(sessionID, result.Automaton)
		} else if err != nil {
			return fmt.Errorf("failed to load transcript: %w", err)
		}

		transcript.Append(*result)
		if err := m.store.Save(ctx, sessionID, transcript); err != nil {
			return fmt.Errorf("failed to save transcript: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("run recorded",
		"session_id", sessionID,
		"runs", len(transcript.Runs),
		"verdict", result.Verdict,
	)
	return transcript, nil
}

// Load retrieves an existing transcript from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Transcript, error) {
	var transcript *domain.Transcript
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		transcript, err = m.store.Load(ctx, sessionID)
		return err
	})
	return transcript, err
}

// Delete removes the transcript from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying transcript store.
func (m *Manager) Store() ports.TranscriptStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
