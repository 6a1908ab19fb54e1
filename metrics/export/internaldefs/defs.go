package internaldefs

import (
	sessiongate "github.com/casalink/sessiongate"
)

// CounterDef names one engine counter for export.
type CounterDef struct {
	ID   sessiongate.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for export.
type HistogramDef struct {
	ID   sessiongate.MetricID
	Name string
	Help string
}

// CounterDefs enumerates every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: sessiongate.MetricRestoreAttempt, Name: "sessiongate_restore_attempt_total", Help: "Cold-start restoration attempts."},
	{ID: sessiongate.MetricRestoreSuccess, Name: "sessiongate_restore_success_total", Help: "Restorations that recovered a session."},
	{ID: sessiongate.MetricRestoreExhausted, Name: "sessiongate_restore_exhausted_total", Help: "Restorations that gave up after the retry budget."},
	{ID: sessiongate.MetricProbeSuccess, Name: "sessiongate_probe_success_total", Help: "Provider session probes that succeeded."},
	{ID: sessiongate.MetricProbeFailure, Name: "sessiongate_probe_failure_total", Help: "Provider session probes that failed."},
	{ID: sessiongate.MetricRefreshSuccess, Name: "sessiongate_refresh_success_total", Help: "Silent token renewals that succeeded."},
	{ID: sessiongate.MetricRefreshFailure, Name: "sessiongate_refresh_failure_total", Help: "Silent token renewals that failed."},
	{ID: sessiongate.MetricSessionCommitted, Name: "sessiongate_session_committed_total", Help: "Sessions committed by the combiner or verifier."},
	{ID: sessiongate.MetricSessionCleared, Name: "sessiongate_session_cleared_total", Help: "Sessions cleared to the anonymous state."},
	{ID: sessiongate.MetricVerifyTick, Name: "sessiongate_verify_tick_total", Help: "Periodic verification ticks."},
	{ID: sessiongate.MetricVerifyTickSkipped, Name: "sessiongate_verify_tick_skipped_total", Help: "Verification ticks skipped while a refresh was in flight."},
	{ID: sessiongate.MetricGuardAuthorized, Name: "sessiongate_guard_authorized_total", Help: "Guard checks that authorized the route."},
	{ID: sessiongate.MetricGuardUnauthorized, Name: "sessiongate_guard_unauthorized_total", Help: "Guard checks that denied the route."},
	{ID: sessiongate.MetricGuardVerifying, Name: "sessiongate_guard_verifying_total", Help: "Guard checks answered while the pipeline was settling."},
	{ID: sessiongate.MetricCacheHit, Name: "sessiongate_cache_hit_total", Help: "Guard checks served from the verification cache."},
	{ID: sessiongate.MetricCacheMiss, Name: "sessiongate_cache_miss_total", Help: "Authorized guard checks that bypassed the cache."},
	{ID: sessiongate.MetricAdminReprobe, Name: "sessiongate_admin_reprobe_total", Help: "Fresh provider probes forced by admin routes."},
	{ID: sessiongate.MetricRedirectScheduled, Name: "sessiongate_redirect_scheduled_total", Help: "Debounced redirects scheduled by the guard."},
	{ID: sessiongate.MetricSignOut, Name: "sessiongate_sign_out_total", Help: "Sign-out operations."},
}

// HistogramDefs enumerates every exported histogram in a stable order.
var HistogramDefs = []HistogramDef{
	{ID: sessiongate.MetricProbeLatency, Name: "sessiongate_probe_latency_seconds", Help: "Provider probe latency histogram."},
}

// HistogramBounds are the Prometheus le labels matching the engine's fixed
// bucket boundaries.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"1",
	"+Inf",
}

// HistogramBoundSuffix maps each bound to an OTel-safe instrument name
// suffix.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"1",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// both exporters emit.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
