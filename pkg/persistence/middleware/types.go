// Package middleware wraps a ports.TranscriptStore to add behavior, such as
// encryption at rest, without the store or the session manager knowing.
package middleware

import "github.com/no-hao/DFA/pkg/ports"

// Middleware allows wrapping a TranscriptStore to add behavior.
type Middleware func(ports.TranscriptStore) ports.TranscriptStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.TranscriptStore, mws ...Middleware) ports.TranscriptStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
