// Package memory provides the session-scoped conversation memory layer.
//
// # Overview
//
// Each session owns one capacity-bounded, ordered log of chat turns,
// persisted in the durable store as a single value. The memory layer is
// the only writer of that value and enforces two properties the store
// alone cannot:
//
//   - Capacity: after any append, a session holds at most 12 turns, the
//     most recent ones in append order. Truncation happens on every
//     append, not lazily on read.
//   - Serialization: Append and Clear for the same session are
//     linearizable. The append read-modify-write cycle runs under a
//     per-session lock; two tabs hammering the same session cannot
//     interleave and lose turns mid-cycle. Distinct sessions proceed in
//     parallel with no shared lock.
//
// # Failure behavior
//
// Reads fail open: a fault talking to the durable store degrades to an
// empty history and is logged, never surfaced. Write failures propagate
// to the caller, who may choose to drop them silently (the chat
// orchestrator does).
//
// # HTTP facade
//
// NewHandler exposes the memory contract over HTTP (/get, /add, /clear)
// for the internal listener, mirroring the store's narrow surface.
package memory
