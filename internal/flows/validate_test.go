package flows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/casalink/sessiongate/session"
)

func validateDeps(t *testing.T, now time.Time, last time.Time) (ValidateDeps, *int) {
	t.Helper()
	probes := 0
	marked := last
	return ValidateDeps{
		RateLimitWindow: time.Minute,
		LastVerified:    func() time.Time { return marked },
		MarkVerified:    func(ts time.Time) { marked = ts },
		Probe: func(context.Context) (*session.Session, error) {
			probes++
			return sess("u1"), nil
		},
		Now: func() time.Time { return now },
	}, &probes
}

func TestValidateIncompleteSession(t *testing.T) {
	deps, probes := validateDeps(t, time.Now(), time.Time{})

	tests := []struct {
		name string
		sess *session.Session
	}{
		{name: "nil", sess: nil},
		{name: "missing email", sess: &session.Session{ID: "u1"}},
		{name: "missing id", sess: &session.Session{Email: "u1@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if RunValidate(context.Background(), tt.sess, deps) {
				t.Fatal("incomplete session validated")
			}
		})
	}
	if *probes != 0 {
		t.Fatal("incomplete sessions must fail before any provider call")
	}
}

func TestValidateRateLimitWindowSkipsProbe(t *testing.T) {
	now := time.Now()
	deps, probes := validateDeps(t, now, now.Add(-30*time.Second))

	if !RunValidate(context.Background(), sess("u1"), deps) {
		t.Fatal("expected assumed-valid inside the rate limit window")
	}
	if *probes != 0 {
		t.Fatalf("probe called %d times inside the window, want 0", *probes)
	}
}

func TestValidateProbesAfterWindowLapses(t *testing.T) {
	now := time.Now()
	deps, probes := validateDeps(t, now, now.Add(-2*time.Minute))

	if !RunValidate(context.Background(), sess("u1"), deps) {
		t.Fatal("expected valid after confirming probe")
	}
	if *probes != 1 {
		t.Fatalf("probe called %d times, want 1", *probes)
	}

	// The confirming probe refreshed the window; an immediate re-check skips
	// the provider again.
	if !RunValidate(context.Background(), sess("u1"), deps) {
		t.Fatal("expected valid from refreshed window")
	}
	if *probes != 1 {
		t.Fatalf("probe called %d times after window refresh, want 1", *probes)
	}
}

func TestValidateIdentifierMismatch(t *testing.T) {
	now := time.Now()
	deps, _ := validateDeps(t, now, time.Time{})
	deps.Probe = func(context.Context) (*session.Session, error) {
		return sess("someone-else"), nil
	}

	if RunValidate(context.Background(), sess("u1"), deps) {
		t.Fatal("session must not validate against a different provider identity")
	}
}

func TestValidateNeverPropagatesErrors(t *testing.T) {
	now := time.Now()
	deps, _ := validateDeps(t, now, time.Time{})
	deps.Probe = func(context.Context) (*session.Session, error) {
		return nil, errors.New("provider exploded")
	}

	if RunValidate(context.Background(), sess("u1"), deps) {
		t.Fatal("probe error must be treated as invalid")
	}

	deps.Probe = func(context.Context) (*session.Session, error) {
		panic("provider sdk bug")
	}
	if RunValidate(context.Background(), sess("u1"), deps) {
		t.Fatal("panic must be swallowed and treated as invalid")
	}
}
