package sessiongate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/casalink/sessiongate/internal/debounce"
	"github.com/casalink/sessiongate/internal/flows"
	internalmetrics "github.com/casalink/sessiongate/internal/metrics"
	"github.com/casalink/sessiongate/internal/notify"
	"github.com/casalink/sessiongate/session"
)

// Engine is the session pipeline: it merges the three session sources
// (auth events, direct probes, cold-start restoration), validates and
// commits the winner, re-verifies periodically, and answers route guard
// checks. Construct one through [Builder.Build], call [Engine.Start] once,
// and [Engine.Close] on teardown.
type Engine struct {
	config   Config
	provider Provider

	persisted *session.Store // nil when no Redis client was supplied
	cache     *session.Cache
	metrics   *internalmetrics.Metrics
	notices   *notify.Dispatcher
	nav       *debounce.Navigator

	// combineMu serializes combine passes so two slot updates cannot
	// interleave their validate/refresh/commit sequences.
	combineMu sync.Mutex

	mu           sync.Mutex
	current      *session.Session
	loading      bool
	initialized  bool
	restoring    bool
	lastVerified time.Time
	slotEvent    flows.SourceState
	slotProbed   flows.SourceState
	slotRestored flows.SourceState
	verifyCancel context.CancelFunc

	refreshInFlight atomic.Bool
	started         atomic.Bool
	closed          atomic.Bool
	sub             Subscription
	done            chan struct{}
	wg              sync.WaitGroup
	closeOnce       sync.Once
}

// Start subscribes to provider auth events and launches restoration and the
// initial probe. It is not idempotent: a second call returns an error.
func (e *Engine) Start(ctx context.Context) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if !e.started.CompareAndSwap(false, true) {
		return fmt.Errorf("sessiongate: engine already started")
	}

	e.mu.Lock()
	e.loading = true
	e.mu.Unlock()

	sub, err := e.provider.OnAuthStateChange(e.handleAuthEvent)
	if err != nil {
		// The listener source settles empty; probe and restoration still
		// run, so a session can land without push events.
		e.warnf("sessiongate: auth event subscription failed: %v", err)
		e.setEventSlot(ctx, nil, true)
	} else {
		e.mu.Lock()
		e.sub = sub
		// An established stream with no event yet is a settled "no session"
		// answer. Without this an anonymous visitor would wait forever for
		// an event that never comes. A push arriving during subscription
		// setup wins; it settled the slot first.
		settle := !e.slotEvent.Settled
		if settle {
			e.slotEvent = flows.SourceState{Settled: true}
		}
		e.mu.Unlock()
		if settle {
			e.recombine(ctx)
		}
	}

	e.wg.Add(2)
	go e.runRestore(ctx)
	go e.runProbe(ctx)

	return nil
}

// Close tears the engine down: unsubscribes from provider events, stops the
// periodic verifier and pending redirects, and drains the notice
// dispatcher. Safe to call more than once.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.closeOnce.Do(func() {
		e.closed.Store(true)

		e.mu.Lock()
		sub := e.sub
		cancel := e.verifyCancel
		e.verifyCancel = nil
		e.mu.Unlock()

		if sub != nil {
			sub.Unsubscribe()
		}
		if cancel != nil {
			cancel()
		}
		close(e.done)
		e.nav.Close()
		e.wg.Wait()
		e.notices.Close()
	})
}

// Session returns a read-only copy of the committed session, or nil.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Clone()
}

// Loading reports whether the pipeline is still settling. It flips to false
// exactly when the first commit (or empty settlement) lands.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Initialized reports whether the first combination of all three session
// sources has completed. Once true it never resets for the lifetime of the
// engine.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// Restoring reports whether cold-start restoration is in flight.
func (e *Engine) Restoring() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.restoring
}

// IsAdmin reports whether the committed session holds the admin role.
func (e *Engine) IsAdmin() bool { return e.hasRole(RoleAdmin) }

// IsBroker reports whether the committed session holds the broker role.
func (e *Engine) IsBroker() bool { return e.hasRole(RoleBroker) }

// IsClient reports whether the committed session holds the client role.
func (e *Engine) IsClient() bool { return e.hasRole(RoleClient) }

func (e *Engine) hasRole(role Role) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil && e.current.Role == role
}

// SignOut invalidates the provider-held session and clears all local state:
// committed session, verification cache, persisted tokens, pending
// redirects. Local state is cleared even when the provider call fails.
func (e *Engine) SignOut(ctx context.Context) error {
	err := e.provider.SignOut(ctx)
	e.clearSession(ctx)
	e.metricInc(MetricSignOut)

	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignOutFailed, err)
	}
	return nil
}

// MetricsSnapshot returns a point-in-time copy of all counters and
// histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// NoticesDropped reports notices discarded under dispatcher backpressure.
func (e *Engine) NoticesDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.notices.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) warnf(format string, args ...any) {
	log.Printf(format, args...)
}

// probeProvider reads the provider-held session and maps it across the
// boundary. The raw provider shape never escapes this call.
func (e *Engine) probeProvider(ctx context.Context) (*session.Session, error) {
	start := time.Now()
	raw, err := e.provider.GetSession(ctx)
	e.metrics.ObserveProbeLatency(time.Since(start))

	if err != nil {
		e.metricInc(MetricProbeFailure)
		return nil, err
	}
	e.metricInc(MetricProbeSuccess)
	return mapProviderSession(raw), nil
}

// refreshProvider attempts a silent renewal. A (nil, nil) return means the
// provider declined without a transport failure.
func (e *Engine) refreshProvider(ctx context.Context) (*session.Session, error) {
	raw, err := e.provider.RefreshSession(ctx)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, err
	}
	if raw == nil {
		e.metricInc(MetricRefreshFailure)
		return nil, nil
	}
	e.metricInc(MetricRefreshSuccess)
	return mapProviderSession(raw), nil
}

// validateSession applies the validity rules: structural completeness plus
// a provider confirmation, rate-limited to one round-trip per window.
func (e *Engine) validateSession(ctx context.Context, sess *session.Session) bool {
	return flows.RunValidate(ctx, sess, flows.ValidateDeps{
		RateLimitWindow: e.config.Validation.RateLimitWindow,
		LastVerified: func() time.Time {
			e.mu.Lock()
			defer e.mu.Unlock()
			return e.lastVerified
		},
		MarkVerified: func(ts time.Time) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.lastVerified = ts
		},
		Probe: e.probeProvider,
		Now:   time.Now,
		Warn:  e.warnf,
	})
}

func (e *Engine) markVerified(ts time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastVerified = ts
}

func (e *Engine) clearPersisted(ctx context.Context) {
	if e.persisted == nil {
		return
	}
	if err := e.persisted.Delete(ctx, tenantIDFromContext(ctx), clientIDFromContext(ctx)); err != nil {
		e.warnf("sessiongate: persisted session delete failed: %v", err)
	}
}

func (e *Engine) persistSession(ctx context.Context, sess *session.Session) {
	if e.persisted == nil || sess == nil {
		return
	}
	if err := e.persisted.Save(ctx, tenantIDFromContext(ctx), clientIDFromContext(ctx), sess); err != nil {
		e.warnf("sessiongate: persisted session save failed: %v", err)
	}
}

// clearSession settles every source empty and commits "no session". Used by
// sign-out, provider SIGNED_OUT events, and terminal verification failure;
// stale slot answers must not resurrect a dead session on the next combine
// pass.
func (e *Engine) clearSession(ctx context.Context) {
	e.mu.Lock()
	e.slotEvent = flows.SourceState{Settled: true}
	e.slotProbed = flows.SourceState{Settled: true}
	e.slotRestored = flows.SourceState{Settled: true}
	e.lastVerified = time.Time{}
	e.mu.Unlock()

	e.clearPersisted(ctx)
	e.commit(ctx, nil)
	e.nav.Cancel()
}
