// Package middleware exposes HTTP adapters for the sessiongate route guard.
//
// # Guards
//
//   - [Guard] — evaluates the three-valued authorization decision for the
//     request path and acts on it: pass through, redirect, or ask the client
//     to retry while verification is still in flight.
//   - [RequireRole] — shorthand for [Guard] with a fixed allow-list.
//
// Each guard calls Engine.Authorize with the request path and injects the
// committed session into the request context on success.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authorization logic itself — every decision is delegated to
// Engine.Authorize.
//
// # What this package must NOT do
//
//   - Inspect tokens or roles directly (delegates to Engine).
//   - Talk to the identity provider or Redis (Engine handles I/O).
//   - Override the engine's decision order or redirect targets.
package middleware
