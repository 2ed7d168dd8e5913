// ABOUTME: Store interface and data types for huddle persistence
// ABOUTME: Defines Turn and the per-session key-value Store interface

package store

import (
	"context"
)

// Role values for conversation turns.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message in a conversation. Turns are immutable
// once appended to a session's history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store is the durable per-session key-value capability. Each session ID
// maps to a single stored value: the ordered array of its turns.
// PutTurns replaces the stored sequence for a session as one atomic unit.
// The store makes no serialization promise across calls for the same
// session; that discipline lives in the memory layer.
type Store interface {
	// GetTurns returns the stored sequence for a session, or (nil, nil)
	// if the session has no entry yet.
	GetTurns(ctx context.Context, sessionID string) ([]Turn, error)

	// PutTurns atomically replaces the stored sequence for a session.
	PutTurns(ctx context.Context, sessionID string, turns []Turn) error

	// Close releases any resources held by the store.
	Close() error
}
