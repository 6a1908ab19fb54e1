package flows

import (
	"context"
	"errors"

	"github.com/casalink/sessiongate/session"
)

// RestoreDeps captures cold-start restoration dependencies.
type RestoreDeps struct {
	// Attempts bounds the retry budget. Restoration never retries
	// indefinitely: a permanently signed-out user settles as anonymous.
	Attempts int
	// LoadPersisted reads the persisted token store. Nil when no store is
	// configured.
	LoadPersisted func(context.Context) (*session.Session, error)
	// Probe asks the provider for its current session.
	Probe func(context.Context) (*session.Session, error)
	// Validate applies the session validity rules.
	Validate func(context.Context, *session.Session) bool
	// Sleep waits out the inter-attempt backoff. Returns false when the
	// context was cancelled while waiting.
	Sleep func(context.Context) bool
	Warn  func(string, ...any)
}

// RestoreResult reports the recovered session (nil on exhaustion) and how
// many attempts were spent.
type RestoreResult struct {
	Session  *session.Session
	Attempts int
}

// RunRestore attempts session recovery: persisted store first, then a
// provider probe, for up to deps.Attempts rounds with backoff between them.
func RunRestore(ctx context.Context, deps RestoreDeps) RestoreResult {
	attempts := deps.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if deps.LoadPersisted != nil {
			sess, err := deps.LoadPersisted(ctx)
			if err == nil && deps.Validate(ctx, sess) {
				return RestoreResult{Session: sess, Attempts: attempt}
			}
			if err != nil && deps.Warn != nil && !errors.Is(err, session.ErrNotFound) {
				deps.Warn("sessiongate: persisted session load failed")
			}
		}

		sess, err := deps.Probe(ctx)
		if err == nil && sess != nil && deps.Validate(ctx, sess) {
			return RestoreResult{Session: sess, Attempts: attempt}
		}
		if err != nil && deps.Warn != nil {
			deps.Warn("sessiongate: restoration probe failed")
		}

		if attempt < attempts {
			if !deps.Sleep(ctx) {
				return RestoreResult{Attempts: attempt}
			}
		}
	}

	return RestoreResult{Attempts: attempts}
}
