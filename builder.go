package reqguard

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/halcyon-labs/reqguard/identity"
	"github.com/halcyon-labs/reqguard/internal/audit"
	"github.com/halcyon-labs/reqguard/internal/ratelimit"
	"github.com/halcyon-labs/reqguard/jwt"
	"github.com/halcyon-labs/reqguard/metrics"
	"github.com/halcyon-labs/reqguard/password"
	"github.com/halcyon-labs/reqguard/permission"
	"github.com/halcyon-labs/reqguard/session"
	"github.com/halcyon-labs/reqguard/store"
)

// Builder assembles an Engine. Backends not supplied fall back to
// in-process defaults: memory document store, memory session store,
// memory rate-limit counters, and the bundled local identity provider.
type Builder struct {
	config Config
	logger *zap.Logger
	redis  redis.UniversalClient

	docs     store.DocumentStore
	users    store.UserStore
	provider identity.Provider
	registry *permission.Registry
	sessions session.Store
	sink     audit.Sink

	built bool
}

// New returns a Builder with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithLogger sets the structured logger for engine warnings and the
// default audit sink.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithRedis switches sessions and rate-limit counters to Redis, the
// multi-instance deployment shape.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithDocumentStore sets the backing document store for profiles and,
// when the bundled provider is used, credentials.
func (b *Builder) WithDocumentStore(docs store.DocumentStore) *Builder {
	b.docs = docs
	return b
}

// WithUserStore overrides the typed profile store. Most callers set
// WithDocumentStore instead and let the builder wrap it.
func (b *Builder) WithUserStore(users store.UserStore) *Builder {
	b.users = users
	return b
}

// WithIdentityProvider plugs in a hosted identity provider. Without it
// the builder wires the local argon2 provider over the document store.
func (b *Builder) WithIdentityProvider(provider identity.Provider) *Builder {
	b.provider = provider
	return b
}

// WithPermissionRegistry replaces the default role matrix.
func (b *Builder) WithPermissionRegistry(registry *permission.Registry) *Builder {
	b.registry = registry
	return b
}

// WithSessionStore overrides the session backend entirely.
func (b *Builder) WithSessionStore(sessions session.Store) *Builder {
	b.sessions = sessions
	return b
}

// WithAuditSink sets the security-event sink. Defaults to a zap sink
// on the configured logger.
func (b *Builder) WithAuditSink(sink audit.Sink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles the counter bank.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates configuration, wires defaults for anything not
// supplied, and returns a ready Engine. A Builder builds once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := b.config.validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	docs := b.docs
	if docs == nil {
		docs = store.NewMemoryStore()
	}
	users := b.users
	if users == nil {
		users = store.NewUsers(docs)
	}

	provider := b.provider
	if provider == nil {
		hasher, err := password.New(b.config.passwordParams())
		if err != nil {
			return nil, err
		}
		provider = identity.NewLocalProvider(docs, hasher, identity.NewLogMailer(logger))
	}

	registry := b.registry
	if registry == nil {
		registry = permission.Default()
	}

	sessions := b.sessions
	if sessions == nil {
		if b.redis != nil {
			sessions = session.NewRedisStore(b.redis, b.config.Session.RedisPrefix, b.config.Session.IdleTimeout)
		} else {
			sessions = session.NewMemoryStore(session.MemoryConfig{
				Timeout:       b.config.Session.IdleTimeout,
				SweepInterval: b.config.Session.SweepInterval,
				MaxSessions:   b.config.Session.MaxSessions,
			})
		}
	}

	var counter ratelimit.Counter
	if b.redis != nil {
		counter = ratelimit.NewRedisCounter(b.redis, b.config.RateLimit.RedisPrefix)
	} else {
		counter = ratelimit.NewMemoryCounter(b.config.RateLimit.MaxEntries)
	}
	limiter := ratelimit.New(counter, b.config.RateLimit.Limits)

	var tokens *jwt.Manager
	if b.config.JWT.TTL > 0 {
		manager, err := jwt.NewManager(b.config.jwtConfig())
		if err != nil {
			return nil, err
		}
		tokens = manager
	}

	sink := b.sink
	if sink == nil {
		sink = audit.NewZapSink(logger)
	}

	b.built = true
	return &Engine{
		config:   b.config,
		logger:   logger,
		users:    users,
		provider: provider,
		registry: registry,
		sessions: sessions,
		limiter:  limiter,
		tokens:   tokens,
		audit:    audit.NewDispatcher(b.config.auditConfig(), sink),
		metrics:  metrics.New(b.config.metricsConfig()),
	}, nil
}
