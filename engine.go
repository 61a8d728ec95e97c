package reqguard

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/halcyon-labs/reqguard/identity"
	"github.com/halcyon-labs/reqguard/internal/audit"
	"github.com/halcyon-labs/reqguard/internal/ratelimit"
	"github.com/halcyon-labs/reqguard/jwt"
	"github.com/halcyon-labs/reqguard/metrics"
	"github.com/halcyon-labs/reqguard/permission"
	"github.com/halcyon-labs/reqguard/session"
	"github.com/halcyon-labs/reqguard/store"
)

// Engine is the account and session manager. It owns the lockout state
// machine, session lifecycle, and the audit and metrics fan-out. All
// methods are safe for concurrent use.
type Engine struct {
	config   Config
	logger   *zap.Logger
	users    store.UserStore
	provider identity.Provider
	registry *permission.Registry
	sessions session.Store
	limiter  *ratelimit.Limiter
	tokens   *jwt.Manager
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics

	now func() time.Time
}

// AllowRate counts one request for (class, clientID) against the
// class's fixed-window budget. An exhausted budget returns
// ErrRateLimited. A counter backend outage fails open: the request is
// admitted and the degradation is logged and counted.
func (e *Engine) AllowRate(ctx context.Context, class RateClass, clientID string) error {
	err := e.limiter.Allow(ctx, class, clientID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ratelimit.ErrLimited):
		e.metrics.Inc(metrics.RateLimitHit)
		if class == RateClassAuth {
			e.metrics.Inc(metrics.LoginRateLimited)
		}
		e.emit(ctx, audit.Event{
			EventType: audit.TypeRateLimited,
			Success:   false,
			Metadata:  map[string]any{"class": string(class), "client": clientID},
		})
		return ErrRateLimited
	default:
		e.metrics.Inc(metrics.InfraError)
		e.warn("rate limit backend unavailable, admitting request", err,
			zap.String("class", string(class)))
		return nil
	}
}

// RateWindow exposes a class's configured budget, used by HTTP
// boundaries to fill Retry-After.
func (e *Engine) RateWindow(class RateClass) (RateWindow, bool) {
	return e.limiter.WindowFor(class)
}

// Tokens returns the bearer-token manager, or nil when JWT issuance is
// disabled in configuration.
func (e *Engine) Tokens() *jwt.Manager { return e.tokens }

// Registry returns the role permission matrix.
func (e *Engine) Registry() *permission.Registry { return e.registry }

// Production reports whether the engine runs with the production
// environment profile.
func (e *Engine) Production() bool { return e.config.Production() }

// MetricsSnapshot returns a point-in-time copy of all counters and
// histograms.
func (e *Engine) MetricsSnapshot() metrics.Snapshot { return e.metrics.SnapshotAll() }

// AuditDropped reports how many audit events were discarded because
// the dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 { return e.audit.Dropped() }

// Can reports whether the role holds the permission. Unknown roles
// hold nothing.
func (e *Engine) Can(role string, perm permission.Permission) bool {
	return e.registry.Allowed(role, perm)
}

// Close drains the audit dispatcher and releases the session backend.
func (e *Engine) Close() error {
	e.audit.Close()
	return e.sessions.Close()
}

func (e *Engine) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

func (e *Engine) emit(ctx context.Context, ev audit.Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = e.clock()
	}
	if ev.IP == "" {
		ev.IP = clientIPFromContext(ctx)
	}
	e.audit.Emit(ctx, ev)
}

func (e *Engine) warn(msg string, err error, fields ...zap.Field) {
	e.logger.Warn(msg, append(fields, zap.Error(err))...)
}
