package flows

import (
	"context"

	"github.com/casalink/sessiongate/session"
)

// ProbeDeps captures current-session probe dependencies.
type ProbeDeps struct {
	GetSession func(context.Context) (*session.Session, error)
	Refresh    func(context.Context) (*session.Session, error)
	Warn       func(string, ...any)
}

// ProbeResult reports the probed session (nil for a settled anonymous
// answer) or a transport error. Err non-nil means the source did not settle.
type ProbeResult struct {
	Session   *session.Session
	Refreshed bool
	Err       error
}

// RunProbe asks the provider "what is the session right now" with exactly
// one refresh retry when the direct read comes back empty or fails.
func RunProbe(ctx context.Context, deps ProbeDeps) ProbeResult {
	sess, err := deps.GetSession(ctx)
	if err == nil && sess != nil {
		return ProbeResult{Session: sess}
	}
	if err != nil && deps.Warn != nil {
		deps.Warn("sessiongate: session probe failed, attempting refresh")
	}

	refreshed, rerr := deps.Refresh(ctx)
	if rerr != nil {
		if deps.Warn != nil {
			deps.Warn("sessiongate: probe refresh failed")
		}
		if err != nil {
			// Both calls failed on transport. Unsettled.
			return ProbeResult{Err: rerr}
		}
		// The direct read settled on "no session"; a failed refresh does not
		// un-settle that answer.
		return ProbeResult{}
	}

	return ProbeResult{Session: refreshed, Refreshed: refreshed != nil}
}
