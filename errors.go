package sessiongate

import "errors"

var (
	// ErrProviderRequired is returned by [Builder.Build] when no identity
	// provider was supplied.
	ErrProviderRequired = errors.New("identity provider required")
	// ErrEngineNotStarted is returned by operations that need a running
	// engine before [Engine.Start] was called.
	ErrEngineNotStarted = errors.New("engine not started")
	// ErrEngineClosed is returned once [Engine.Close] has run.
	ErrEngineClosed = errors.New("engine closed")
	// ErrSubscribeFailed wraps a provider auth-event subscription failure.
	ErrSubscribeFailed = errors.New("auth event subscription failed")
	// ErrSignOutFailed wraps a provider sign-out failure. Local state is
	// still cleared when this is returned.
	ErrSignOutFailed = errors.New("provider sign-out failed")
	// ErrInvalidConfig is returned by [Config.Validate] and [Builder.Build]
	// for out-of-range configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// errRefreshBusy signals that another renewal already holds the shared
// refresh slot. Callers treat it as a transient failure.
var errRefreshBusy = errors.New("token refresh already in flight")
