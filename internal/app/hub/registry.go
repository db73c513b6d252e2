/*
Package hub contains the realtime presence and notification core.

This file defines the online-user registry: the mapping from user id to the
active session handle. The registry is interface-bound so a multi-process
deployment can swap in a shared external store without touching call sites.
*/
package hub

import (
	"sync"

	"github.com/rs/zerolog"

	"skillswap/internal/pkg/errs"
	"skillswap/internal/pkg/logx"
)

// Session is an active realtime connection for one user. The WebSocket client
// implements it; tests use in-memory fakes.
type Session interface {
	// UserID identifies the user this session belongs to.
	UserID() string

	// Deliver queues one event for the client. It must not block; an error
	// means the event was dropped, never that it will be retried.
	Deliver(event string, payload any) error

	// Kick terminates the session because it was replaced by a newer one.
	Kick(reason string)
}

// Registry maps user ids to their single active session.
// Invariant: at most one session per user id at any instant; registering a
// second session for the same user replaces (and kicks) the first.
type Registry interface {
	Register(s Session)
	Unregister(s Session)
	Lookup(userID string) (Session, bool)
}

// MemoryRegistry is the in-process Registry used in a single-node deployment.
// Entries live only as long as the process; the registry is rebuilt from
// scratch on restart as clients reconnect.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
	logger   zerolog.Logger
}

// NewMemoryRegistry constructs an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]Session),
		logger:   logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Register stores the session as the user's active handle. An existing session
// for the same user is kicked and replaced; last registered wins.
func (r *MemoryRegistry) Register(s Session) {
	userID := s.UserID()

	r.mu.Lock()
	old, replaced := r.sessions[userID]
	r.sessions[userID] = s
	r.mu.Unlock()

	if replaced && old != s {
		r.logger.Warn().
			Str("user_id", userID).
			Msg("User already connected. Replacing old session.")
		old.Kick(errs.NewError(errs.ErrSessionKicked).Message)
	}

	r.logger.Info().Str("user_id", userID).Msg("Session registered.")
}

// Unregister removes the session, but only if it is still the user's current
// one. A stale disconnect arriving after a replacement must not evict the
// newer session.
func (r *MemoryRegistry) Unregister(s Session) {
	userID := s.UserID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[userID]; ok && current == s {
		delete(r.sessions, userID)
		r.logger.Info().Str("user_id", userID).Msg("Session unregistered.")
		return
	}

	r.logger.Debug().Str("user_id", userID).Msg("Ignoring unregister for stale session.")
}

// Lookup returns the user's active session, if any.
func (r *MemoryRegistry) Lookup(userID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	return s, ok
}

// Online reports the number of currently registered sessions.
func (r *MemoryRegistry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
