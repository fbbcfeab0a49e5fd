package domain

import "time"

// Transcript is the run history of an interactive session.
type Transcript struct {
	SessionID string    `json:"session_id"`
	Automaton string    `json:"automaton,omitempty"`
	Runs      []Result  `json:"runs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed holds the encrypted transcript when the store sits behind an
	// encryption middleware. Runs is empty in that case.
	Sealed string `json:"sealed,omitempty"`
}

// NewTranscript creates an empty transcript for a session.
func NewTranscript(sessionID, automaton string) *Transcript {
	now := time.Now().UTC()
	return &Transcript{
		SessionID: sessionID,
		Automaton: automaton,
		Runs:      []Result{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append records a finished run.
func (t *Transcript) Append(r Result) {
	t.Runs = append(t.Runs, r.Clone())
	t.UpdatedAt = time.Now().UTC()
}

// Snapshot returns a deep copy so stores can isolate their data from callers.
func (t *Transcript) Snapshot() *Transcript {
	out := *t
	out.Runs = make([]Result, len(t.Runs))
	for i := range t.Runs {
		out.Runs[i] = t.Runs[i].Clone()
	}
	return &out
}
