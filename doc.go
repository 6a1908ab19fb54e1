// Package sessiongate implements the client-session and authorization core
// for a multi-portal brokerage application: combining session sources by
// priority, bounded cold-start restoration, periodic token verification, and
// a role-gated route guard with a short-lived verification cache.
//
// The package is designed to sit between a host application and an external
// identity provider. The provider owns sign-in, token refresh, and event
// notifications; sessiongate owns the in-process session state machine built
// on top of them. Engine methods are safe to call from multiple goroutines
// after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// sessiongate is the public surface. It exposes [Engine], [Builder],
// [Config], the [Provider] boundary, and value types (GuardResult, Notice,
// MetricsSnapshot, etc.). All internal coordination — flow decision logic,
// notice dispatch, navigation debouncing, metric storage — lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Verify token signatures or otherwise re-implement what the provider
//     already owns.
//   - Expose Redis clients, persisted-store encodings, or internal flow
//     types in its public API.
//   - Let the provider's raw session shape leak past the boundary mapping.
//
// # Failure containment
//
// Every provider-call failure is caught at the call site and converted into
// a state transition (nil session, unauthorized decision). None propagate as
// panics or errors to the rendering layer.
package sessiongate
