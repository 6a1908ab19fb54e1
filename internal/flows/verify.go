package flows

import (
	"context"

	"github.com/casalink/sessiongate/session"
)

// VerifyOutcome classifies one periodic verification tick.
type VerifyOutcome int

const (
	// VerifySkipped means a refresh was already in flight; the tick was a
	// no-op.
	VerifySkipped VerifyOutcome = iota
	// VerifyActive means the provider confirmed a live session.
	VerifyActive
	// VerifyRefreshed means the session was silently renewed.
	VerifyRefreshed
	// VerifyCleared means probe and refresh both came back empty; the
	// session was scheduled for clearing.
	VerifyCleared
	// VerifyDeferred means a transport error interrupted the tick; the
	// existing session is kept and the next tick retries.
	VerifyDeferred
)

// VerifyDeps captures periodic verification dependencies.
type VerifyDeps struct {
	// TryBegin claims the single-flight refresh slot. A false return means
	// another tick (or sign-in) holds it, and this tick must no-op.
	TryBegin func() bool
	End      func()
	Probe    func(context.Context) (*session.Session, error)
	Refresh  func(context.Context) (*session.Session, error)
	// Commit replaces the committed session wholesale.
	Commit func(*session.Session)
	// ClearAfterGrace clears the session after a short delay, leaving room
	// for an in-flight sign-in to land first.
	ClearAfterGrace func(context.Context)
	Warn            func(string, ...any)
}

// RunVerifyTick re-probes the provider while the session is open. Exactly
// one refresh is attempted when the probe reports no active session; a
// second consecutive failure is terminal.
func RunVerifyTick(ctx context.Context, deps VerifyDeps) VerifyOutcome {
	if !deps.TryBegin() {
		if deps.Warn != nil {
			deps.Warn("sessiongate: verification tick skipped, refresh in flight")
		}
		return VerifySkipped
	}
	defer deps.End()

	sess, err := deps.Probe(ctx)
	if err != nil {
		if deps.Warn != nil {
			deps.Warn("sessiongate: periodic probe failed, keeping session")
		}
		return VerifyDeferred
	}
	if sess != nil {
		deps.Commit(sess)
		return VerifyActive
	}

	refreshed, rerr := deps.Refresh(ctx)
	if rerr == nil && refreshed != nil {
		deps.Commit(refreshed)
		return VerifyRefreshed
	}
	if rerr != nil && deps.Warn != nil {
		deps.Warn("sessiongate: periodic refresh failed")
	}

	deps.ClearAfterGrace(ctx)
	return VerifyCleared
}
