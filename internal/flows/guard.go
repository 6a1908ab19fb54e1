package flows

import (
	"context"
	"strings"

	"github.com/casalink/sessiongate/session"
)

// Decision is the three-valued result of a guard check. "Not yet known" must
// stay distinguishable from "known false", otherwise the first paint of a
// protected screen flickers through a redirect.
type Decision int

const (
	// DecisionVerifying means the pipeline has not settled; render a
	// loading placeholder.
	DecisionVerifying Decision = iota
	// DecisionAuthorized means the route may render.
	DecisionAuthorized
	// DecisionUnauthorized means redirect away.
	DecisionUnauthorized
)

// String returns a log-friendly form of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionAuthorized:
		return "authorized"
	case DecisionUnauthorized:
		return "unauthorized"
	default:
		return "verifying"
	}
}

// NoticeKind classifies the user-visible notice attached to a guard result.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	// NoticeSessionExpired is shown when a protected route is hit without a
	// valid session.
	NoticeSessionExpired
	// NoticeInsufficientRole is shown when a valid session holds the wrong
	// role for the route.
	NoticeInsufficientRole
)

// GuardResult is the outcome of one authorization check.
type GuardResult struct {
	Decision   Decision
	RedirectTo string
	Notice     NoticeKind
	// CacheHit marks a decision served from the verification cache.
	CacheHit bool
	// Probed marks a decision that performed a fresh admin re-probe.
	Probed bool
}

// GuardInput is the snapshot a guard check runs against.
type GuardInput struct {
	Path         string
	AllowedRoles []session.Role
	Session      *session.Session
	Initialized  bool
	Loading      bool
}

// GuardDeps captures route guard dependencies.
type GuardDeps struct {
	ClientPrefix string
	AdminPrefix  string
	BrokerPrefix string
	AuthPath     string
	// LandingPage maps a role to its home route; unknown roles land on the
	// auth entry point.
	LandingPage func(session.Role) string
	CacheValid  func(path string) bool
	CacheUpdate func(*session.Session, string)
	// ProbeFresh bypasses every cache for admin routes: cached role claims
	// are not trusted there.
	ProbeFresh func(context.Context) (*session.Session, error)
	Refresh    func(context.Context) (*session.Session, error)
	Warn       func(string, ...any)
}

// RunGuard evaluates the authorization state machine for one route. The
// rule order is load-bearing: each later rule assumes the earlier ones did
// not fire.
func RunGuard(ctx context.Context, in GuardInput, deps GuardDeps) GuardResult {
	// Client namespace routes are intentionally open.
	if strings.HasPrefix(in.Path, deps.ClientPrefix) {
		return GuardResult{Decision: DecisionAuthorized}
	}

	if !in.Initialized || in.Loading {
		return GuardResult{Decision: DecisionVerifying}
	}

	adminRoute := strings.HasPrefix(in.Path, deps.AdminPrefix)

	// Cached verification short-circuits everything except admin routes.
	if !adminRoute && in.Session != nil && deps.CacheValid(in.Path) {
		return GuardResult{Decision: DecisionAuthorized, CacheHit: true}
	}

	if adminRoute && in.Session != nil {
		return runAdminCheck(ctx, in, deps)
	}

	if in.Session == nil {
		if isProtected(in.Path, deps) || len(in.AllowedRoles) > 0 {
			return GuardResult{
				Decision:   DecisionUnauthorized,
				RedirectTo: authRedirect(deps.AuthPath, in.Path),
				Notice:     NoticeSessionExpired,
			}
		}
		// Unrestricted route, anonymous user: nothing to enforce.
		return GuardResult{Decision: DecisionAuthorized}
	}

	if len(in.AllowedRoles) == 0 {
		deps.CacheUpdate(in.Session, in.Path)
		return GuardResult{Decision: DecisionAuthorized}
	}

	for _, role := range in.AllowedRoles {
		if in.Session.Role == role {
			deps.CacheUpdate(in.Session, in.Path)
			return GuardResult{Decision: DecisionAuthorized}
		}
	}

	return GuardResult{
		Decision:   DecisionUnauthorized,
		RedirectTo: deps.LandingPage(in.Session.Role),
		Notice:     NoticeInsufficientRole,
	}
}

// runAdminCheck re-probes the provider before granting an admin route: the
// freshly-probed role must equal admin exactly, with one refresh retry.
func runAdminCheck(ctx context.Context, in GuardInput, deps GuardDeps) GuardResult {
	fresh, err := deps.ProbeFresh(ctx)
	if err == nil && fresh != nil && fresh.Role == session.RoleAdmin {
		deps.CacheUpdate(fresh, in.Path)
		return GuardResult{Decision: DecisionAuthorized, Probed: true}
	}
	if err != nil && deps.Warn != nil {
		deps.Warn("sessiongate: admin re-probe failed, attempting refresh")
	}

	refreshed, rerr := deps.Refresh(ctx)
	if rerr == nil && refreshed != nil && refreshed.Role == session.RoleAdmin {
		deps.CacheUpdate(refreshed, in.Path)
		return GuardResult{Decision: DecisionAuthorized, Probed: true}
	}

	// Redirect to the landing page of the role the provider actually
	// reported, falling back to the session's own claim.
	actual := in.Session.Role
	if fresh != nil {
		actual = fresh.Role
	}
	if refreshed != nil {
		actual = refreshed.Role
	}

	return GuardResult{
		Decision:   DecisionUnauthorized,
		RedirectTo: deps.LandingPage(actual),
		Notice:     NoticeInsufficientRole,
		Probed:     true,
	}
}

func isProtected(path string, deps GuardDeps) bool {
	return strings.HasPrefix(path, deps.AdminPrefix) || strings.HasPrefix(path, deps.BrokerPrefix)
}

func authRedirect(authPath, from string) string {
	if from == "" || from == authPath {
		return authPath
	}
	return authPath + "?redirect=" + from
}
