// ABOUTME: Conversation memory service with per-session serialization
// ABOUTME: Capacity-bounded turn log over the durable store, 12 most recent turns kept

package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/stephentwig/huddle/internal/store"
)

// maxTurns is the history capacity per session. Every append re-derives
// from stored state and keeps only the most recent maxTurns entries.
const maxTurns = 12

// Service coordinates access to per-session conversation histories.
// Mutations for the same session are serialized through a keyed lock so
// the read-modify-write append cycle never interleaves; sessions do not
// contend with each other.
type Service struct {
	store  store.Store
	locks  *keyedMutex
	logger *slog.Logger
}

// New creates a memory service over the given durable store.
func New(st store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  st,
		locks:  newKeyedMutex(),
		logger: logger.With("component", "memory"),
	}
}

// Session returns a handle scoped to one session's history.
func (s *Service) Session(id string) *Session {
	return &Session{id: id, svc: s}
}

// Session is a handle to a single session's conversation history.
// Handles are cheap and stateless; callers create one per request.
// A caller that reads a snapshot via Get and appends later may lose a
// concurrent writer's view between the two calls. That is accepted
// last-write-wins-by-append-order behavior, not something Get/Append
// try to prevent.
type Session struct {
	id  string
	svc *Service
}

// ID returns the session identifier this handle is bound to.
func (s *Session) ID() string {
	return s.id
}

// Get returns the session's history, oldest first. It never fails:
// a fault in the durable read path degrades to an empty history. The
// read is data-loss tolerant so a storage hiccup costs context, not the
// request.
func (s *Session) Get(ctx context.Context) []store.Turn {
	turns, err := s.svc.store.GetTurns(ctx, s.id)
	if err != nil {
		s.svc.logger.Warn("history read failed, degrading to empty",
			"session_id", s.id,
			"error", err)
		return nil
	}
	return turns
}

// Append adds one turn to the session's history, dropping the oldest
// turns beyond the capacity of 12, and writes the truncated sequence
// back as one atomic unit. The whole read-modify-write cycle runs under
// the session's lock.
func (s *Session) Append(ctx context.Context, turn store.Turn) error {
	s.svc.locks.Lock(s.id)
	defer s.svc.locks.Unlock(s.id)

	turns, err := s.svc.store.GetTurns(ctx, s.id)
	if err != nil {
		s.svc.logger.Warn("append read failed, treating history as empty",
			"session_id", s.id,
			"error", err)
		turns = nil
	}

	turns = append(turns, turn)
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}

	return s.svc.store.PutTurns(ctx, s.id, turns)
}

// Clear replaces the session's history with an empty sequence.
func (s *Session) Clear(ctx context.Context) error {
	s.svc.locks.Lock(s.id)
	defer s.svc.locks.Unlock(s.id)

	return s.svc.store.PutTurns(ctx, s.id, nil)
}

// keyedMutex serializes work per key while leaving distinct keys fully
// parallel. Entries are refcounted and removed once the last holder
// releases, so idle sessions hold no memory.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[string]*lockEntry)}
}

// Lock acquires the lock for a key, creating its entry if needed.
func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &lockEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for a key, dropping the entry when no other
// goroutine is waiting on it.
func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()
	e := k.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
