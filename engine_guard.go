package sessiongate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/casalink/sessiongate/internal/flows"
	"github.com/casalink/sessiongate/internal/notify"
	"github.com/casalink/sessiongate/session"
)

// Authorize evaluates whether the current session may stay on path.
// allowedRoles restricts the route to those roles; an empty list protects
// the route without restricting it. Unauthorized decisions schedule a
// debounced redirect and emit a user-visible notice; the caller acts on the
// returned decision immediately.
func (e *Engine) Authorize(ctx context.Context, path string, allowedRoles ...Role) GuardResult {
	e.mu.Lock()
	cur := e.current.Clone()
	input := flows.GuardInput{
		Path:         path,
		AllowedRoles: allowedRoles,
		Session:      cur,
		Initialized:  e.initialized,
		Loading:      e.loading,
	}
	e.mu.Unlock()

	res := flows.RunGuard(ctx, input, flows.GuardDeps{
		ClientPrefix: e.config.Guard.ClientPrefix,
		AdminPrefix:  e.config.Guard.AdminPrefix,
		BrokerPrefix: e.config.Guard.BrokerPrefix,
		AuthPath:     e.config.Guard.AuthPath,
		LandingPage:  e.config.landingPage,
		CacheValid:   e.cache.IsValid,
		CacheUpdate:  e.cache.Update,
		ProbeFresh: func(ctx context.Context) (*session.Session, error) {
			e.metricInc(MetricAdminReprobe)
			return e.probeProvider(ctx)
		},
		Refresh: e.refreshProvider,
		Warn:    e.warnf,
	})

	switch res.Decision {
	case DecisionAuthorized:
		e.metricInc(MetricGuardAuthorized)
		if res.CacheHit {
			e.metricInc(MetricCacheHit)
		} else if cur != nil {
			e.metricInc(MetricCacheMiss)
		}
	case DecisionVerifying:
		e.metricInc(MetricGuardVerifying)
	case DecisionUnauthorized:
		e.metricInc(MetricGuardUnauthorized)
		if res.RedirectTo != "" {
			e.nav.Schedule(res.RedirectTo, path)
			e.metricInc(MetricRedirectScheduled)
		}
		e.emitNotice(ctx, res.Notice, path, cur)
	}

	return res
}

func (e *Engine) emitNotice(ctx context.Context, kind flows.NoticeKind, path string, sess *Session) {
	if kind == flows.NoticeNone || e.notices == nil {
		return
	}

	notice := Notice{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Path:      path,
	}
	if sess != nil {
		notice.Role = sess.Role.String()
	}

	switch kind {
	case flows.NoticeSessionExpired:
		notice.Kind = notify.KindSessionExpired
		notice.Message = "session expired, please sign in again"
	case flows.NoticeInsufficientRole:
		notice.Kind = notify.KindInsufficientRole
		notice.Message = "insufficient permission"
	default:
		return
	}

	e.notices.Emit(ctx, notice)
}
