package sessiongate

import (
	"fmt"
	"strings"
	"time"
)

// Config groups the engine's tuning knobs. Zero values are filled from
// [DefaultConfig] by the [Builder]; explicit values are validated by
// [Config.Validate].
type Config struct {
	Restore    RestoreConfig
	Validation ValidationConfig
	Verifier   VerifierConfig
	Guard      GuardConfig
	Cache      CacheConfig
	Store      StoreConfig
	Notices    NoticeConfig
	Metrics    MetricsConfig
}

// RestoreConfig bounds cold-start session recovery.
type RestoreConfig struct {
	// MaxAttempts caps restoration rounds. Restoration never retries
	// indefinitely.
	MaxAttempts int
	// Backoff is the fixed wait between attempts.
	Backoff time.Duration
}

// ValidationConfig tunes session validity checking.
type ValidationConfig struct {
	// RateLimitWindow is how long a successful verification is assumed to
	// still hold. Inside the window no provider round-trip is made, trading
	// a bounded staleness window for responsiveness on route transitions.
	RateLimitWindow time.Duration
}

// VerifierConfig tunes the periodic re-verification task.
type VerifierConfig struct {
	// Interval between verification ticks while a session is open.
	Interval time.Duration
	// GraceDelay is how long a terminal refresh failure waits before the
	// session is cleared, leaving room for an in-flight sign-in to land.
	GraceDelay time.Duration
}

// GuardConfig defines the route namespaces and redirect policy.
type GuardConfig struct {
	// ClientPrefix routes are intentionally open; no checks run there.
	ClientPrefix string
	// AdminPrefix routes require a fresh provider re-probe confirming the
	// admin role.
	AdminPrefix string
	// BrokerPrefix routes are protected.
	BrokerPrefix string
	// AuthPath is the sign-in entry point used as the anonymous redirect
	// target.
	AuthPath string
	// AdminLanding, BrokerLanding, and ClientLanding are the per-role home
	// routes used when a valid session holds the wrong role.
	AdminLanding  string
	BrokerLanding string
	ClientLanding string
	// RedirectDebounce is the quiet period before a scheduled redirect
	// fires; rapid repeated requests collapse into one.
	RedirectDebounce time.Duration
}

// CacheConfig tunes the route verification cache.
type CacheConfig struct {
	// TTL bounds how long a verified-route entry stays fresh.
	TTL time.Duration
}

// StoreConfig tunes the Redis-backed persisted session store. Ignored when
// the builder receives no Redis client.
type StoreConfig struct {
	RedisPrefix string
	// TTL bounds how long a persisted session outlives the process that
	// wrote it; it should match the refresh token lifetime.
	TTL time.Duration
}

// NoticeConfig controls user-visible notice dispatch.
type NoticeConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process metric collection.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the canonical tuning: 2 restoration attempts with 1s
// backoff, a 60s validation window, 5-minute verification interval, 5-minute
// cache TTL, and an 800ms redirect debounce.
func DefaultConfig() Config {
	return Config{
		Restore: RestoreConfig{
			MaxAttempts: 2,
			Backoff:     time.Second,
		},
		Validation: ValidationConfig{
			RateLimitWindow: 60 * time.Second,
		},
		Verifier: VerifierConfig{
			Interval:   5 * time.Minute,
			GraceDelay: 2 * time.Second,
		},
		Guard: GuardConfig{
			ClientPrefix:     "/client",
			AdminPrefix:      "/admin",
			BrokerPrefix:     "/broker",
			AuthPath:         "/auth",
			AdminLanding:     "/admin",
			BrokerLanding:    "/broker/dashboard",
			ClientLanding:    "/client/welcome",
			RedirectDebounce: 800 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Store: StoreConfig{
			RedisPrefix: "sg",
			TTL:         30 * 24 * time.Hour,
		},
		Notices: NoticeConfig{
			Enabled:    true,
			BufferSize: 16,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func defaultConfig() Config {
	return DefaultConfig()
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a full copy.
	return cfg
}

// Validate checks ranges and prefix shapes. It returns the first problem
// found, wrapped in [ErrInvalidConfig].
func (c *Config) Validate() error {
	if c.Restore.MaxAttempts < 1 {
		return fmt.Errorf("%w: restore max attempts must be >= 1", ErrInvalidConfig)
	}
	if c.Restore.Backoff < 0 {
		return fmt.Errorf("%w: restore backoff must not be negative", ErrInvalidConfig)
	}
	if c.Validation.RateLimitWindow <= 0 {
		return fmt.Errorf("%w: validation rate limit window must be positive", ErrInvalidConfig)
	}
	if c.Verifier.Interval < time.Minute {
		return fmt.Errorf("%w: verifier interval must be >= 1m", ErrInvalidConfig)
	}
	if c.Verifier.GraceDelay < 0 {
		return fmt.Errorf("%w: verifier grace delay must not be negative", ErrInvalidConfig)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: cache ttl must be positive", ErrInvalidConfig)
	}
	if c.Guard.RedirectDebounce <= 0 {
		return fmt.Errorf("%w: redirect debounce must be positive", ErrInvalidConfig)
	}
	if c.Store.TTL <= 0 {
		return fmt.Errorf("%w: store ttl must be positive", ErrInvalidConfig)
	}

	for name, prefix := range map[string]string{
		"client prefix":  c.Guard.ClientPrefix,
		"admin prefix":   c.Guard.AdminPrefix,
		"broker prefix":  c.Guard.BrokerPrefix,
		"auth path":      c.Guard.AuthPath,
		"admin landing":  c.Guard.AdminLanding,
		"broker landing": c.Guard.BrokerLanding,
		"client landing": c.Guard.ClientLanding,
	} {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("%w: guard %s must start with '/'", ErrInvalidConfig, name)
		}
	}

	return nil
}

// landingPage maps a role to its home route; unknown roles land on the auth
// entry point.
func (c *Config) landingPage(role Role) string {
	switch role {
	case RoleAdmin:
		return c.Guard.AdminLanding
	case RoleBroker:
		return c.Guard.BrokerLanding
	case RoleClient:
		return c.Guard.ClientLanding
	default:
		return c.Guard.AuthPath
	}
}
