package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/casalink/sessiongate/session"
)

func verifyDeps(t *testing.T) (VerifyDeps, *struct {
	probes, refreshes, commits, clears int
	committed                          *session.Session
	inFlight                           bool
}) {
	t.Helper()

	state := &struct {
		probes, refreshes, commits, clears int
		committed                          *session.Session
		inFlight                           bool
	}{}

	return VerifyDeps{
		TryBegin: func() bool {
			if state.inFlight {
				return false
			}
			state.inFlight = true
			return true
		},
		End: func() { state.inFlight = false },
		Probe: func(context.Context) (*session.Session, error) {
			state.probes++
			return sess("u1"), nil
		},
		Refresh: func(context.Context) (*session.Session, error) {
			state.refreshes++
			return nil, nil
		},
		Commit: func(s *session.Session) {
			state.commits++
			state.committed = s
		},
		ClearAfterGrace: func(context.Context) { state.clears++ },
	}, state
}

func TestVerifyTickActiveSession(t *testing.T) {
	deps, state := verifyDeps(t)

	if got := RunVerifyTick(context.Background(), deps); got != VerifyActive {
		t.Fatalf("outcome = %v, want active", got)
	}
	if state.commits != 1 || state.refreshes != 0 {
		t.Fatalf("unexpected calls: %+v", state)
	}
	if state.inFlight {
		t.Fatal("single-flight slot not released")
	}
}

func TestVerifyTickRefreshesWhenProbeEmpty(t *testing.T) {
	deps, state := verifyDeps(t)
	deps.Probe = func(context.Context) (*session.Session, error) { return nil, nil }
	deps.Refresh = func(context.Context) (*session.Session, error) {
		state.refreshes++
		return sess("renewed"), nil
	}

	if got := RunVerifyTick(context.Background(), deps); got != VerifyRefreshed {
		t.Fatalf("outcome = %v, want refreshed", got)
	}
	if state.refreshes != 1 || state.committed == nil || state.committed.ID != "renewed" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestVerifyTickClearsAfterDoubleFailure(t *testing.T) {
	deps, state := verifyDeps(t)
	deps.Probe = func(context.Context) (*session.Session, error) { return nil, nil }

	if got := RunVerifyTick(context.Background(), deps); got != VerifyCleared {
		t.Fatalf("outcome = %v, want cleared", got)
	}
	if state.clears != 1 || state.commits != 0 {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestVerifyTickSkippedWhileRefreshInFlight(t *testing.T) {
	deps, state := verifyDeps(t)
	state.inFlight = true

	if got := RunVerifyTick(context.Background(), deps); got != VerifySkipped {
		t.Fatalf("outcome = %v, want skipped", got)
	}
	if state.probes != 0 || state.refreshes != 0 {
		t.Fatal("skipped tick must not touch the provider")
	}
	if !state.inFlight {
		t.Fatal("skipped tick must not release a slot it never claimed")
	}
}

func TestVerifyTickDeferredOnTransportError(t *testing.T) {
	deps, state := verifyDeps(t)
	deps.Probe = func(context.Context) (*session.Session, error) {
		return nil, errors.New("timeout")
	}

	if got := RunVerifyTick(context.Background(), deps); got != VerifyDeferred {
		t.Fatalf("outcome = %v, want deferred", got)
	}
	if state.clears != 0 {
		t.Fatal("transient failure must not clear the session")
	}
}
