package debounce

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	targets []string
}

func (r *recorder) fire(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.targets))
	copy(out, r.targets)
	return out
}

func TestRapidCallsCollapseToLastTarget(t *testing.T) {
	rec := &recorder{}
	nav := New(20*time.Millisecond, rec.fire)
	defer nav.Close()

	paths := []string{"/a", "/b", "/c", "/d", "/broker/dashboard"}
	for _, p := range paths {
		nav.Schedule(p, "/current")
	}

	time.Sleep(100 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("fired %d times, want 1 (targets: %v)", len(got), got)
	}
	if got[0] != "/broker/dashboard" {
		t.Fatalf("fired at %q, want last-requested target", got[0])
	}
}

func TestScheduleToCurrentPathDropsPending(t *testing.T) {
	rec := &recorder{}
	nav := New(20*time.Millisecond, rec.fire)
	defer nav.Close()

	nav.Schedule("/auth", "/broker/leads")
	// The user already arrived; scheduling the current path cancels.
	nav.Schedule("/auth", "/auth")

	time.Sleep(100 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("fired %v, want no navigation", got)
	}
}

func TestCancelDropsPending(t *testing.T) {
	rec := &recorder{}
	nav := New(20*time.Millisecond, rec.fire)
	defer nav.Close()

	nav.Schedule("/auth", "/broker/leads")
	nav.Cancel()

	time.Sleep(100 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("fired %v after cancel", got)
	}
}

func TestCloseRejectsFurtherScheduling(t *testing.T) {
	rec := &recorder{}
	nav := New(time.Millisecond, rec.fire)

	nav.Close()
	nav.Close() // idempotent
	nav.Schedule("/auth", "/broker/leads")

	time.Sleep(50 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("fired %v after close", got)
	}
}

func TestSeparatedCallsEachFire(t *testing.T) {
	rec := &recorder{}
	nav := New(10*time.Millisecond, rec.fire)
	defer nav.Close()

	nav.Schedule("/a", "/current")
	time.Sleep(60 * time.Millisecond)
	nav.Schedule("/b", "/current")
	time.Sleep(60 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Fatalf("fired %v, want [/a /b]", got)
	}
}
