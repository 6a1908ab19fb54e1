package middleware

import (
	"context"
	"net/http"
	"strconv"

	sessiongate "github.com/casalink/sessiongate"
)

type sessionContextKey struct{}

// SessionFromContext returns the session injected by [Guard] for an
// authorized request.
func SessionFromContext(ctx context.Context) (*sessiongate.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*sessiongate.Session)
	return sess, ok
}

// Options tunes how guard decisions map onto HTTP responses.
type Options struct {
	// AllowedRoles restricts the wrapped routes; empty protects without
	// restricting.
	AllowedRoles []sessiongate.Role
	// VerifyingHandler serves requests that arrive before the session
	// pipeline has settled. Nil falls back to 503 with a Retry-After hint.
	VerifyingHandler http.Handler
	// RetryAfterSeconds is the Retry-After value of the fallback 503.
	// Zero means 1.
	RetryAfterSeconds int
}

// Guard wraps next with an authorization check against the request path.
// Authorized requests proceed with the session in their context;
// unauthorized ones receive the engine's redirect as a 302; requests during
// pipeline settlement get the verifying handler.
func Guard(engine *sessiongate.Engine, opts Options) func(http.Handler) http.Handler {
	verifying := opts.VerifyingHandler
	if verifying == nil {
		retry := "1"
		if opts.RetryAfterSeconds > 0 {
			retry = strconv.Itoa(opts.RetryAfterSeconds)
		}
		verifying = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", retry)
			http.Error(w, "session verification in progress", http.StatusServiceUnavailable)
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res := engine.Authorize(r.Context(), r.URL.Path, opts.AllowedRoles...)
			switch res.Decision {
			case sessiongate.DecisionAuthorized:
				ctx := r.Context()
				if sess := engine.Session(); sess != nil {
					ctx = context.WithValue(ctx, sessionContextKey{}, sess)
				}
				next.ServeHTTP(w, r.WithContext(ctx))

			case sessiongate.DecisionVerifying:
				verifying.ServeHTTP(w, r)

			default:
				target := res.RedirectTo
				if target == "" {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, target, http.StatusFound)
			}
		})
	}
}

// RequireRole is [Guard] with a fixed role allow-list and default options.
func RequireRole(engine *sessiongate.Engine, roles ...sessiongate.Role) func(http.Handler) http.Handler {
	return Guard(engine, Options{AllowedRoles: roles})
}
