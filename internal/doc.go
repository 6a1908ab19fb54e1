// Package internal groups sessiongate's non-exported building blocks: flow
// runners, the navigation debouncer, notice dispatch, and metric storage.
// Nothing under internal/ is part of the public API.
package internal
