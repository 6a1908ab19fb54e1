// Package notify delivers the pipeline's two user-visible notices ("session
// expired", "insufficient permission") to a pluggable sink through an
// asynchronous buffered dispatcher.
//
// # Architecture boundaries
//
// This package owns notice delivery mechanics only. Deciding when a notice
// is warranted belongs to the guard flow; rendering a toast belongs to the
// host application.
//
// # What this package must NOT do
//
//   - Block a guard check on a slow sink.
//   - Import the root package or internal/flows.
package notify
