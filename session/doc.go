// Package session defines the canonical session model for sessiongate, the
// Redis-backed persisted token store used by cold-start restoration, and the
// short-lived route verification cache consulted by the route guard.
//
// # Architecture boundaries
//
// This package owns the Session value type, its persisted encoding, and the
// cache/staleness rules around it. Combining session sources, talking to the
// identity provider, and authorization decisions live in the root package and
// internal/flows.
//
// # What this package must NOT do
//
//   - Call the identity provider.
//   - Import the root package or internal/flows (no import cycles).
//   - Verify token signatures; only unverified claim extraction is permitted
//     here, and only for expiry inference.
package session
