package flows

import (
	"context"

	"github.com/casalink/sessiongate/session"
)

// SourceState is one combiner input slot. Settled means the source reached a
// terminal "I have an answer" state, whether or not that answer is a session.
type SourceState struct {
	Session *session.Session
	Settled bool
}

// CombineOutcome classifies what a combine pass decided.
type CombineOutcome int

const (
	// CombinePending means at least one source is still unsettled and no
	// candidate exists yet; nothing was committed.
	CombinePending CombineOutcome = iota
	// CombineCommitted means a validated session was committed.
	CombineCommitted
	// CombineRefreshed means the candidate failed validation but a provider
	// refresh produced a valid replacement, which was committed.
	CombineRefreshed
	// CombineClearedInvalid means the candidate was invalid, the refresh
	// produced nothing, and "no session" was committed with cleanup.
	CombineClearedInvalid
	// CombineSettledEmpty means every source settled without a session and
	// "no session" was committed.
	CombineSettledEmpty
	// CombineDeferred means a transient provider error interrupted the
	// refresh; the pass committed nothing and left the sources as-is for the
	// periodic verifier to retry.
	CombineDeferred
)

// CombineResult carries the committed value when Committed is true. A
// committed nil Session means "no session".
type CombineResult struct {
	Outcome   CombineOutcome
	Committed bool
	Session   *session.Session
}

// CombineDeps captures combiner dependencies.
type CombineDeps struct {
	Validate       func(context.Context, *session.Session) bool
	Refresh        func(context.Context) (*session.Session, error)
	ClearPersisted func(context.Context)
	Warn           func(string, ...any)
}

// RunCombine recomputes the combined candidate from the three named slots.
// Priority is fixed: event-sourced over direct probe over restored-at-boot.
// A fresher source is never overwritten by a staler one arriving late,
// because every pass re-reads all three slots instead of taking whichever
// resolved last.
func RunCombine(ctx context.Context, event, probed, restored SourceState, deps CombineDeps) CombineResult {
	candidate := event.Session
	if candidate == nil {
		candidate = probed.Session
	}
	if candidate == nil {
		candidate = restored.Session
	}

	if candidate != nil {
		if deps.Validate(ctx, candidate) {
			return CombineResult{
				Outcome:   CombineCommitted,
				Committed: true,
				Session:   candidate.Clone(),
			}
		}

		refreshed, err := deps.Refresh(ctx)
		if err != nil {
			// Transport failure, not a verdict. Keep the current state and
			// let the periodic verifier retry.
			if deps.Warn != nil {
				deps.Warn("sessiongate: combiner refresh failed, deferring")
			}
			return CombineResult{Outcome: CombineDeferred}
		}
		if refreshed != nil && deps.Validate(ctx, refreshed) {
			return CombineResult{
				Outcome:   CombineRefreshed,
				Committed: true,
				Session:   refreshed.Clone(),
			}
		}

		if deps.ClearPersisted != nil {
			deps.ClearPersisted(ctx)
		}
		return CombineResult{
			Outcome:   CombineClearedInvalid,
			Committed: true,
		}
	}

	if event.Settled && probed.Settled && restored.Settled {
		return CombineResult{
			Outcome:   CombineSettledEmpty,
			Committed: true,
		}
	}

	return CombineResult{Outcome: CombinePending}
}
