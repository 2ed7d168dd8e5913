// Package gateway is the request interface of huddle.
//
// # Overview
//
// The gateway maps the external HTTP surface onto the session, memory,
// and chat layers. It adds no business logic beyond resolving the
// session identity, deciding whether to set the outbound credential
// cookie, and shaping JSON envelopes and status codes.
//
// # Servers
//
// Two HTTP servers run side by side:
//
//   - Public (server.http_addr): the chat page, /api/history, /api/chat,
//     and /health.
//   - Internal (server.internal_addr, optional): the memory facade with
//     /get, /add, and /clear, keyed by an explicit sid parameter.
//
// Both shut down together with a 5 second grace period when the run
// context is canceled.
//
// # Error surface
//
// Invalid or malformed chat input returns 400. An inference failure
// returns 502 with {"error": ...}. Storage read faults never surface;
// they degrade to an empty history inside the memory layer. Unmatched
// paths return a JSON 404.
package gateway
