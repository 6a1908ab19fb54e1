package sessiongate

import (
	"github.com/casalink/sessiongate/internal/flows"
	internalmetrics "github.com/casalink/sessiongate/internal/metrics"
	"github.com/casalink/sessiongate/internal/notify"
	"github.com/casalink/sessiongate/session"
)

// Role is the portal role carried by a session.
type Role = session.Role

const (
	// RoleUnknown never authorizes anything.
	RoleUnknown = session.RoleUnknown
	// RoleAdmin grants the admin portal.
	RoleAdmin = session.RoleAdmin
	// RoleBroker grants the broker portal.
	RoleBroker = session.RoleBroker
	// RoleClient grants the public client portal.
	RoleClient = session.RoleClient
)

// Session is the read-only session snapshot handed to consumers.
type Session = session.Session

// Profile carries optional identity metadata.
type Profile = session.Profile

// Decision is the three-valued guard result: verifying, authorized, or
// unauthorized. Never a plain boolean — "not yet known" must stay
// distinguishable from "known false".
type Decision = flows.Decision

const (
	// DecisionVerifying renders a loading placeholder.
	DecisionVerifying = flows.DecisionVerifying
	// DecisionAuthorized renders the route.
	DecisionAuthorized = flows.DecisionAuthorized
	// DecisionUnauthorized redirects away.
	DecisionUnauthorized = flows.DecisionUnauthorized
)

// GuardResult is the outcome of one [Engine.Authorize] check.
type GuardResult = flows.GuardResult

// GuardNotice classifies the notice attached to an unauthorized guard
// decision.
type GuardNotice = flows.NoticeKind

const (
	// GuardNoticeNone means no notice accompanies the decision.
	GuardNoticeNone = flows.NoticeNone
	// GuardNoticeSessionExpired accompanies an anonymous hit on a
	// protected route.
	GuardNoticeSessionExpired = flows.NoticeSessionExpired
	// GuardNoticeInsufficientRole accompanies a valid session holding the
	// wrong role.
	GuardNoticeInsufficientRole = flows.NoticeInsufficientRole
)

// Notice is a user-visible transient notification.
type Notice = notify.Notice

// NoticeKind classifies a notice.
type NoticeKind = notify.Kind

const (
	// NoticeSessionExpired asks the user to sign in again.
	NoticeSessionExpired = notify.KindSessionExpired
	// NoticeInsufficientRole tells the user the screen needs another role.
	NoticeInsufficientRole = notify.KindInsufficientRole
)

// NoticeSink receives [Notice] values from the engine's dispatcher.
type NoticeSink = notify.Sink

// NoOpNoticeSink silently discards all notices.
type NoOpNoticeSink = notify.NoOpSink

// ChannelNoticeSink is a buffered channel-based [NoticeSink].
type ChannelNoticeSink = notify.ChannelSink

// NewChannelNoticeSink creates a [ChannelNoticeSink] with the given buffer
// capacity.
func NewChannelNoticeSink(buffer int) *ChannelNoticeSink {
	return notify.NewChannelSink(buffer)
}

// JSONWriterNoticeSink writes JSON-encoded notices to an [io.Writer], one
// object per line.
type JSONWriterNoticeSink = notify.JSONWriterSink

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	MetricRestoreAttempt    = internalmetrics.MetricRestoreAttempt
	MetricRestoreSuccess    = internalmetrics.MetricRestoreSuccess
	MetricRestoreExhausted  = internalmetrics.MetricRestoreExhausted
	MetricProbeSuccess      = internalmetrics.MetricProbeSuccess
	MetricProbeFailure      = internalmetrics.MetricProbeFailure
	MetricRefreshSuccess    = internalmetrics.MetricRefreshSuccess
	MetricRefreshFailure    = internalmetrics.MetricRefreshFailure
	MetricSessionCommitted  = internalmetrics.MetricSessionCommitted
	MetricSessionCleared    = internalmetrics.MetricSessionCleared
	MetricVerifyTick        = internalmetrics.MetricVerifyTick
	MetricVerifyTickSkipped = internalmetrics.MetricVerifyTickSkipped
	MetricGuardAuthorized   = internalmetrics.MetricGuardAuthorized
	MetricGuardUnauthorized = internalmetrics.MetricGuardUnauthorized
	MetricGuardVerifying    = internalmetrics.MetricGuardVerifying
	MetricCacheHit          = internalmetrics.MetricCacheHit
	MetricCacheMiss         = internalmetrics.MetricCacheMiss
	MetricAdminReprobe      = internalmetrics.MetricAdminReprobe
	MetricRedirectScheduled = internalmetrics.MetricRedirectScheduled
	MetricSignOut           = internalmetrics.MetricSignOut
	MetricProbeLatency      = internalmetrics.MetricProbeLatency
)

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot
