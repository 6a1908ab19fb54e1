// Package flows implements the session pipeline's decision logic as pure
// deps-struct runners: combining the three session sources, bounded
// restoration, probing with one refresh retry, rate-limited validation, the
// periodic verification tick, and the route guard state machine.
//
// # Design
//
// Each runner takes a Deps struct of injected callbacks and returns a result
// value classifying the outcome. Runners hold no state, spawn no goroutines,
// and perform I/O only through the injected callbacks, which keeps every
// ordering rule unit-testable without a provider or a clock.
//
// # What this package must NOT do
//
//   - Import the root package (the root maps results onto its public API).
//   - Own timers, locks, or session state.
//   - Talk to Redis or the identity provider directly.
package flows
