package sessiongate

import (
	"context"
	"time"
)

// handleAuthEvent receives provider push events. The event source has top
// priority in the combiner, so every settlement here can supersede probe
// and restoration answers.
func (e *Engine) handleAuthEvent(event AuthEvent, raw *ProviderSession) {
	if e.closed.Load() {
		return
	}
	ctx := context.Background()

	switch event {
	case EventSignedOut:
		// A signed-out push invalidates every source's answer, not just the
		// event slot. Stale probe or restoration state must not resurrect
		// the dead session.
		e.clearSession(ctx)

	case EventSignedIn, EventTokenRefreshed, EventUserUpdated:
		sess := mapProviderSession(raw)
		if sess != nil {
			// The payload came straight from the provider; it counts as a
			// verification for rate-limiting purposes.
			e.markVerified(time.Now())
		}
		e.setEventSlot(ctx, sess, true)

	default:
		e.warnf("sessiongate: ignoring unknown auth event %v", event)
	}
}
