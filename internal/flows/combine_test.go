package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/casalink/sessiongate/session"
)

func sess(id string) *session.Session {
	return &session.Session{ID: id, Email: id + "@example.com", Role: session.RoleBroker}
}

func acceptAll(context.Context, *session.Session) bool { return true }

func noRefresh(t *testing.T) func(context.Context) (*session.Session, error) {
	return func(context.Context) (*session.Session, error) {
		t.Fatal("refresh must not be called")
		return nil, nil
	}
}

func TestCombinePriorityOrdering(t *testing.T) {
	// Event-sourced beats probed beats restored, regardless of which slot
	// settled last.
	tests := []struct {
		name                    string
		event, probed, restored SourceState
		wantID                  string
	}{
		{
			name:     "event wins over restored",
			event:    SourceState{Session: sess("event-user"), Settled: true},
			restored: SourceState{Session: sess("restored-user"), Settled: true},
			wantID:   "event-user",
		},
		{
			name:   "event wins over probe",
			event:  SourceState{Session: sess("event-user"), Settled: true},
			probed: SourceState{Session: sess("probed-user"), Settled: true},
			wantID: "event-user",
		},
		{
			name:     "probe wins over restored",
			probed:   SourceState{Session: sess("probed-user"), Settled: true},
			restored: SourceState{Session: sess("restored-user"), Settled: true},
			wantID:   "probed-user",
		},
		{
			name:     "restored used when alone",
			restored: SourceState{Session: sess("restored-user"), Settled: true},
			wantID:   "restored-user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := RunCombine(context.Background(), tt.event, tt.probed, tt.restored, CombineDeps{
				Validate: acceptAll,
				Refresh:  noRefresh(t),
			})
			if !res.Committed || res.Session == nil {
				t.Fatalf("expected commit, got %+v", res)
			}
			if res.Session.ID != tt.wantID {
				t.Fatalf("committed %q, want %q", res.Session.ID, tt.wantID)
			}
		})
	}
}

func TestCombineLateRestorationDoesNotClobberSignIn(t *testing.T) {
	// A delayed restoration completing after a sign-in event landed must not
	// overwrite the signed-in session: the combiner recomputes from all
	// slots, so the event slot still wins.
	event := SourceState{Session: sess("signed-in"), Settled: true}
	restored := SourceState{Session: sess("stale-restore"), Settled: true}

	res := RunCombine(context.Background(), event, SourceState{Settled: true}, restored, CombineDeps{
		Validate: acceptAll,
		Refresh:  noRefresh(t),
	})
	if res.Session == nil || res.Session.ID != "signed-in" {
		t.Fatalf("late restoration clobbered the event session: %+v", res)
	}
}

func TestCombinePendingUntilAllSettled(t *testing.T) {
	res := RunCombine(context.Background(),
		SourceState{Settled: true},
		SourceState{Settled: false},
		SourceState{Settled: true},
		CombineDeps{Validate: acceptAll, Refresh: noRefresh(t)},
	)
	if res.Committed || res.Outcome != CombinePending {
		t.Fatalf("expected pending while a source is unsettled, got %+v", res)
	}
}

func TestCombineSettledEmpty(t *testing.T) {
	res := RunCombine(context.Background(),
		SourceState{Settled: true},
		SourceState{Settled: true},
		SourceState{Settled: true},
		CombineDeps{Validate: acceptAll, Refresh: noRefresh(t)},
	)
	if !res.Committed || res.Session != nil || res.Outcome != CombineSettledEmpty {
		t.Fatalf("expected empty commit, got %+v", res)
	}
}

func TestCombineInvalidCandidateRefreshed(t *testing.T) {
	refreshCalls := 0
	res := RunCombine(context.Background(),
		SourceState{Session: sess("stale"), Settled: true},
		SourceState{Settled: true},
		SourceState{Settled: true},
		CombineDeps{
			Validate: func(_ context.Context, s *session.Session) bool {
				return s.ID == "fresh"
			},
			Refresh: func(context.Context) (*session.Session, error) {
				refreshCalls++
				return sess("fresh"), nil
			},
		},
	)
	if refreshCalls != 1 {
		t.Fatalf("refresh called %d times, want 1", refreshCalls)
	}
	if res.Outcome != CombineRefreshed || res.Session == nil || res.Session.ID != "fresh" {
		t.Fatalf("expected refreshed commit, got %+v", res)
	}
}

func TestCombineInvalidCandidateCleared(t *testing.T) {
	cleared := false
	res := RunCombine(context.Background(),
		SourceState{Session: sess("stale"), Settled: true},
		SourceState{Settled: true},
		SourceState{Settled: true},
		CombineDeps{
			Validate: func(context.Context, *session.Session) bool { return false },
			Refresh: func(context.Context) (*session.Session, error) {
				return nil, nil
			},
			ClearPersisted: func(context.Context) { cleared = true },
		},
	)
	if res.Outcome != CombineClearedInvalid || !res.Committed || res.Session != nil {
		t.Fatalf("expected cleared commit, got %+v", res)
	}
	if !cleared {
		t.Fatal("expected persisted tokens cleared on terminal refresh failure")
	}
}

func TestCombineTransientRefreshErrorDefers(t *testing.T) {
	res := RunCombine(context.Background(),
		SourceState{Session: sess("stale"), Settled: true},
		SourceState{Settled: true},
		SourceState{Settled: true},
		CombineDeps{
			Validate: func(context.Context, *session.Session) bool { return false },
			Refresh: func(context.Context) (*session.Session, error) {
				return nil, errors.New("network down")
			},
		},
	)
	if res.Committed || res.Outcome != CombineDeferred {
		t.Fatalf("transient refresh error must not commit, got %+v", res)
	}
}
