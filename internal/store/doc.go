// Package store provides persistent storage for huddle using SQLite.
//
// # Architecture
//
// The store is the durable key-value capability behind the conversation
// memory layer. Each session ID keys exactly one value: the ordered JSON
// array of the session's turns. The Store interface exposes whole-value
// get/put only; there is no partial update, so every write is atomic per
// session.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//
// Database file locations:
//
//   - Production: ~/.local/share/huddle/huddle.db
//   - Testing: t.TempDir() paths, or :memory:
//
// # Consistency
//
// The store is crash-consistent per key but does not serialize
// read-modify-write cycles. Callers that read, modify, and write back a
// session's turns (the memory package) must hold that session's lock
// across the cycle.
package store
