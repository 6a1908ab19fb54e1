package sessiongate

import (
	"context"
	"time"

	"github.com/casalink/sessiongate/internal/flows"
	"github.com/casalink/sessiongate/session"
)

// startVerifier launches the periodic verification loop. At most one loop
// runs at a time; it stops when the session clears or the engine closes.
func (e *Engine) startVerifier() {
	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	if e.verifyCancel != nil || e.closed.Load() {
		e.mu.Unlock()
		cancel()
		return
	}
	e.verifyCancel = cancel
	e.mu.Unlock()

	e.wg.Add(1)
	go e.verifyLoop(ctx)
}

func (e *Engine) verifyLoop(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.config.Verifier.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case <-ticker.C:
			e.verifyTick(ctx)
		}
	}
}

// verifyTick runs one verification pass. Re-entrancy is resolved by the
// shared refresh slot: a tick that finds a renewal already in flight is a
// counted no-op.
func (e *Engine) verifyTick(ctx context.Context) flows.VerifyOutcome {
	e.metricInc(MetricVerifyTick)

	outcome := flows.RunVerifyTick(ctx, flows.VerifyDeps{
		TryBegin: func() bool {
			return e.refreshInFlight.CompareAndSwap(false, true)
		},
		End: func() {
			e.refreshInFlight.Store(false)
		},
		Probe:           e.probeProvider,
		Refresh:         e.refreshProvider,
		Commit:          func(sess *session.Session) { e.commitVerified(ctx, sess) },
		ClearAfterGrace: e.clearAfterGrace,
		Warn:            e.warnf,
	})

	if outcome == flows.VerifySkipped {
		e.metricInc(MetricVerifyTickSkipped)
	}
	return outcome
}

// commitVerified installs a session confirmed (or renewed) by a tick. The
// answer is provider-authoritative, so it also replaces the event slot;
// otherwise a later combine pass would hand back the pre-renewal tokens.
func (e *Engine) commitVerified(ctx context.Context, sess *session.Session) {
	e.markVerified(time.Now())

	e.mu.Lock()
	e.slotEvent = flows.SourceState{Session: sess.Clone(), Settled: true}
	e.mu.Unlock()

	e.commit(ctx, sess)
}

// clearAfterGrace waits out the grace delay, then clears the session unless
// a different session landed in the meantime.
func (e *Engine) clearAfterGrace(ctx context.Context) {
	e.mu.Lock()
	var prevID string
	if e.current != nil {
		prevID = e.current.ID
	}
	e.mu.Unlock()

	timer := time.NewTimer(e.config.Verifier.GraceDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return
	case <-e.done:
		return
	}

	e.mu.Lock()
	changed := e.current == nil || e.current.ID != prevID
	e.mu.Unlock()
	if changed {
		return
	}

	e.clearSession(ctx)
}
