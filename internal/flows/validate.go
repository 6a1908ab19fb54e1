package flows

import (
	"context"
	"time"

	"github.com/casalink/sessiongate/session"
)

// ValidateDeps captures validation dependencies. The rate limit keeps route
// transitions from hammering the provider: a verification inside the window
// is assumed still good.
type ValidateDeps struct {
	RateLimitWindow time.Duration
	LastVerified    func() time.Time
	MarkVerified    func(time.Time)
	// Probe confirms an active provider-held session. Only reached when the
	// rate-limit window has lapsed.
	Probe func(context.Context) (*session.Session, error)
	Now   func() time.Time
	Warn  func(string, ...any)
}

// RunValidate reports whether sess may be committed. It never panics and
// never returns an error: any internal failure is treated as invalid.
func RunValidate(ctx context.Context, sess *session.Session, deps ValidateDeps) (valid bool) {
	defer func() {
		if recover() != nil {
			valid = false
		}
	}()

	if !sess.Complete() {
		return false
	}

	now := deps.Now()
	if last := deps.LastVerified(); !last.IsZero() && now.Sub(last) < deps.RateLimitWindow {
		return true
	}

	live, err := deps.Probe(ctx)
	if err != nil {
		if deps.Warn != nil {
			deps.Warn("sessiongate: validation probe failed")
		}
		return false
	}
	if live == nil || live.ID != sess.ID {
		return false
	}

	deps.MarkVerified(now)
	return true
}
