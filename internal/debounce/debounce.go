// Package debounce provides the single cancellable navigation debouncer
// shared by every redirect call site, so "collapse rapid calls" and "skip
// when already there" hold uniformly.
package debounce

import (
	"sync"
	"time"
)

// Navigator coalesces rapid redirect requests into one delayed navigation.
// The latest scheduled target wins; a request whose target equals the
// current path is dropped to prevent redirect loops.
type Navigator struct {
	mu     sync.Mutex
	delay  time.Duration
	fire   func(target string)
	timer  *time.Timer
	target string
	closed bool
}

// New creates a Navigator firing fire after delay of quiet time. fire runs
// on a timer goroutine and must not block.
func New(delay time.Duration, fire func(target string)) *Navigator {
	return &Navigator{
		delay: delay,
		fire:  fire,
	}
}

// Schedule requests a navigation to target. Rapid successive calls collapse
// into a single fire at the last-requested target. Scheduling the current
// path cancels any pending navigation instead of firing.
func (n *Navigator) Schedule(target, current string) {
	if n == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}

	if target == "" || target == current {
		n.cancelLocked()
		return
	}

	n.target = target
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.delay, n.fireLatest)
}

func (n *Navigator) fireLatest() {
	n.mu.Lock()
	if n.closed || n.target == "" {
		n.mu.Unlock()
		return
	}
	target := n.target
	n.target = ""
	n.timer = nil
	fire := n.fire
	n.mu.Unlock()

	if fire != nil {
		fire(target)
	}
}

// Cancel drops any pending navigation.
func (n *Navigator) Cancel() {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelLocked()
}

func (n *Navigator) cancelLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.target = ""
}

// Close cancels pending work and rejects further scheduling. Safe to call
// more than once.
func (n *Navigator) Close() {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelLocked()
	n.closed = true
}
