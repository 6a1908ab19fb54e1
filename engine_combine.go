package sessiongate

import (
	"context"
	"time"

	"github.com/casalink/sessiongate/internal/flows"
	"github.com/casalink/sessiongate/session"
)

// Slot setters record the latest answer from one session source and kick a
// combine pass. Each source may settle more than once (a late restoration,
// a new auth event); the combiner re-runs every time and priority decides
// the winner.

func (e *Engine) setEventSlot(ctx context.Context, sess *session.Session, settled bool) {
	e.mu.Lock()
	e.slotEvent = flows.SourceState{Session: sess.Clone(), Settled: settled}
	e.mu.Unlock()
	e.recombine(ctx)
}

func (e *Engine) setProbedSlot(ctx context.Context, sess *session.Session, settled bool) {
	e.mu.Lock()
	e.slotProbed = flows.SourceState{Session: sess.Clone(), Settled: settled}
	e.mu.Unlock()
	e.recombine(ctx)
}

func (e *Engine) setRestoredSlot(ctx context.Context, sess *session.Session, settled bool) {
	e.mu.Lock()
	e.slotRestored = flows.SourceState{Session: sess.Clone(), Settled: settled}
	e.mu.Unlock()
	e.recombine(ctx)
}

// recombine snapshots the three slots and runs one combine pass. Passes are
// serialized: the validate/refresh/commit sequence of one pass never
// interleaves with another.
func (e *Engine) recombine(ctx context.Context) {
	e.combineMu.Lock()
	defer e.combineMu.Unlock()

	e.mu.Lock()
	event, probed, restored := e.slotEvent, e.slotProbed, e.slotRestored
	e.mu.Unlock()

	res := flows.RunCombine(ctx, event, probed, restored, flows.CombineDeps{
		Validate:       e.validateSession,
		Refresh:        e.refreshForCombine,
		ClearPersisted: e.clearPersisted,
		Warn:           e.warnf,
	})

	if res.Outcome == flows.CombineClearedInvalid {
		e.markVerified(time.Time{})
	}
	if res.Committed {
		e.commit(ctx, res.Session)
	}
}

// refreshForCombine claims the shared refresh slot so a periodic tick
// landing mid-pass sees a refresh in flight and skips. A busy slot is a
// transient failure: the pass defers rather than clearing state.
func (e *Engine) refreshForCombine(ctx context.Context) (*session.Session, error) {
	if !e.refreshInFlight.CompareAndSwap(false, true) {
		return nil, errRefreshBusy
	}
	defer e.refreshInFlight.Store(false)
	return e.refreshProvider(ctx)
}

// commit installs sess (possibly nil) as the committed session. The first
// commit marks the pipeline initialized and ends loading; initialized never
// resets afterwards. A non-nil commit persists the session and ensures the
// periodic verifier runs; a nil commit clears the route cache and stops it.
func (e *Engine) commit(ctx context.Context, sess *session.Session) {
	e.mu.Lock()
	prev := e.current
	e.current = sess.Clone()
	e.loading = false
	e.initialized = true

	var startVerifier bool
	var stopVerifier context.CancelFunc
	if sess != nil {
		startVerifier = e.verifyCancel == nil && !e.closed.Load()
	} else if e.verifyCancel != nil {
		stopVerifier = e.verifyCancel
		e.verifyCancel = nil
	}
	e.mu.Unlock()

	if sess != nil {
		e.metricInc(MetricSessionCommitted)
		e.persistSession(ctx, sess)
		if startVerifier {
			e.startVerifier()
		}
		return
	}

	if prev != nil {
		e.metricInc(MetricSessionCleared)
	}
	e.cache.Clear()
	if stopVerifier != nil {
		stopVerifier()
	}
}
