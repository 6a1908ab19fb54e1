package sessiongate

import (
	"context"
	"time"

	"github.com/casalink/sessiongate/internal/flows"
	"github.com/casalink/sessiongate/session"
)

// runRestore drives cold-start restoration in its own goroutine. The
// restored source settles regardless of outcome: exhausted retries settle
// it empty so the combiner does not wait forever.
func (e *Engine) runRestore(ctx context.Context) {
	defer e.wg.Done()

	e.mu.Lock()
	e.restoring = true
	e.mu.Unlock()

	var loadPersisted func(context.Context) (*session.Session, error)
	if e.persisted != nil {
		loadPersisted = func(ctx context.Context) (*session.Session, error) {
			return e.persisted.Load(ctx, tenantIDFromContext(ctx), clientIDFromContext(ctx))
		}
	}

	res := flows.RunRestore(ctx, flows.RestoreDeps{
		Attempts:      e.config.Restore.MaxAttempts,
		LoadPersisted: loadPersisted,
		Probe:         e.probeProvider,
		Validate:      e.validateSession,
		Sleep:         e.restoreSleep,
		Warn:          e.warnf,
	})

	for i := 0; i < res.Attempts; i++ {
		e.metricInc(MetricRestoreAttempt)
	}
	if res.Session != nil {
		e.metricInc(MetricRestoreSuccess)
	} else {
		e.metricInc(MetricRestoreExhausted)
	}

	e.mu.Lock()
	e.restoring = false
	e.mu.Unlock()

	e.setRestoredSlot(ctx, res.Session, true)
}

// restoreSleep waits out the inter-attempt backoff. Returns false when the
// caller context was cancelled or the engine closed while waiting.
func (e *Engine) restoreSleep(ctx context.Context) bool {
	timer := time.NewTimer(e.config.Restore.Backoff)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	case <-e.done:
		return false
	}
}
