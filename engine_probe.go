package sessiongate

import (
	"context"

	"github.com/casalink/sessiongate/internal/flows"
)

// runProbe drives the startup "what is the session right now" read in its
// own goroutine. On a transport failure the probed source stays unsettled;
// the listener and restoration sources still converge on their own.
func (e *Engine) runProbe(ctx context.Context) {
	defer e.wg.Done()

	res := flows.RunProbe(ctx, flows.ProbeDeps{
		GetSession: e.probeProvider,
		Refresh:    e.refreshForCombine,
		Warn:       e.warnf,
	})
	if res.Err != nil {
		return
	}

	e.setProbedSlot(ctx, res.Session, true)
}
