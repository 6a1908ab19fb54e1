package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a counter or histogram slot.
type MetricID uint16

const (
	MetricRestoreAttempt MetricID = iota
	MetricRestoreSuccess
	MetricRestoreExhausted
	MetricProbeSuccess
	MetricProbeFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricSessionCommitted
	MetricSessionCleared
	MetricVerifyTick
	MetricVerifyTickSkipped
	MetricGuardAuthorized
	MetricGuardUnauthorized
	MetricGuardVerifying
	MetricCacheHit
	MetricCacheMiss
	MetricAdminReprobe
	MetricRedirectScheduled
	MetricSignOut
	MetricProbeLatency

	MetricIDCount
)

// Config controls metric collection.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// paddedCounter keeps each hot counter on its own cache line.
type paddedCounter struct {
	value uint64
	_     [56]byte
}

// histogramBuckets are fixed latency bounds: ≤5ms, ≤10ms, ≤25ms, ≤50ms,
// ≤100ms, ≤250ms, ≤1s, +Inf.
var histogramBounds = [7]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	time.Second,
}

// BucketCount is the number of histogram buckets including +Inf.
const BucketCount = len(histogramBounds) + 1

// Metrics holds atomic counters and an optional latency histogram for the
// provider probe path. All operations are allocation-free no-ops when
// disabled.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [MetricIDCount]paddedCounter
	probeLatency  [BucketCount]paddedCounter
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New creates a Metrics instance configured by cfg.
func New(cfg Config) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatency,
	}
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// ObserveProbeLatency records one provider probe duration.
func (m *Metrics) ObserveProbeLatency(d time.Duration) {
	if m == nil || !m.enableLatency {
		return
	}
	bucket := BucketCount - 1
	for i, bound := range histogramBounds {
		if d <= bound {
			bucket = i
			break
		}
	}
	atomic.AddUint64(&m.probeLatency[bucket].value, 1)
}

// Snapshot deep-copies all counters and histogram buckets.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   make(map[MetricID]uint64, MetricIDCount),
		Histograms: make(map[MetricID][]uint64),
	}
	if m == nil || !m.enabled {
		return snap
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if id == MetricProbeLatency {
			continue
		}
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, BucketCount)
		for i := range buckets {
			buckets[i] = atomic.LoadUint64(&m.probeLatency[i].value)
		}
		snap.Histograms[MetricProbeLatency] = buckets
	}

	return snap
}
