package ports

import (
	"context"

	"github.com/no-hao/DFA/pkg/domain"
)

// TranscriptStore defines the interface for persisting session run history.
type TranscriptStore interface {
	// Save persists the transcript for a given session ID.
	Save(ctx context.Context, sessionID string, transcript *domain.Transcript) error

	// Load retrieves the transcript for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Transcript, error)

	// Delete removes the transcript for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
