package sessiongate

import (
	"errors"

	"github.com/casalink/sessiongate/internal/debounce"
	internalmetrics "github.com/casalink/sessiongate/internal/metrics"
	"github.com/casalink/sessiongate/internal/notify"
	"github.com/casalink/sessiongate/session"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Configure it during initialization, call
// [Builder.Build] once, and treat the result as immutable.
type Builder struct {
	config     Config
	provider   Provider
	redis      redis.UniversalClient
	noticeSink NoticeSink
	navigate   func(target string)

	built bool
}

// New creates a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithProvider sets the identity provider boundary. Required.
func (b *Builder) WithProvider(p Provider) *Builder {
	b.provider = p
	return b
}

// WithRedis enables the persisted session store backing cold-start
// restoration. Without it, restoration relies on the provider alone.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithNoticeSink sets the destination for user-visible notices.
func (b *Builder) WithNoticeSink(sink NoticeSink) *Builder {
	b.noticeSink = sink
	return b
}

// WithNavigator sets the callback invoked when a debounced redirect fires.
// Without it, unauthorized decisions still carry their redirect target but
// no navigation side effect occurs.
func (b *Builder) WithNavigator(navigate func(target string)) *Builder {
	b.navigate = navigate
	return b
}

// WithMetricsEnabled toggles in-process metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the probe latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the Engine. A Builder may
// be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.provider == nil {
		return nil, ErrProviderRequired
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	b.built = true

	e := &Engine{
		config:   b.config,
		provider: b.provider,
		cache:    session.NewCache(b.config.Cache.TTL),
		metrics: internalmetrics.New(internalmetrics.Config{
			Enabled:       b.config.Metrics.Enabled,
			EnableLatency: b.config.Metrics.EnableLatencyHistograms,
		}),
		notices: notify.NewDispatcher(notify.Config{
			Enabled:    b.config.Notices.Enabled,
			BufferSize: b.config.Notices.BufferSize,
			DropIfFull: b.config.Notices.DropIfFull,
		}, b.noticeSink),
		done: make(chan struct{}),
	}

	if b.redis != nil {
		e.persisted = session.NewStore(b.redis, b.config.Store.RedisPrefix, b.config.Store.TTL)
	}

	e.nav = debounce.New(b.config.Guard.RedirectDebounce, func(target string) {
		if b.navigate != nil {
			b.navigate(target)
		}
	})

	return e, nil
}
