package reqguard

import (
	"context"
	"errors"

	"github.com/halcyon-labs/reqguard/internal/audit"
	"github.com/halcyon-labs/reqguard/metrics"
	"github.com/halcyon-labs/reqguard/session"
)

// ValidateSession checks the session against the presenting client's
// IP and user agent (from the context) and returns its principal. Any
// mismatch, expiry, or unknown id collapses to ErrUnauthorized; the
// store will already have deleted the offending session.
func (e *Engine) ValidateSession(ctx context.Context, sessionID string) (*session.Principal, error) {
	start := e.clock()
	defer func() {
		e.metrics.Observe(metrics.ValidateLatency, e.clock().Sub(start))
	}()

	sess, err := e.sessions.Validate(ctx, sessionID, clientIPFromContext(ctx), userAgentFromContext(ctx))
	if err != nil {
		if errors.Is(err, session.ErrUnavailable) {
			e.metrics.Inc(metrics.InfraError)
		}
		return nil, infraErr("session validate", err)
	}
	if sess == nil {
		e.metrics.Inc(metrics.SessionRejected)
		e.emit(ctx, audit.Event{
			EventType: audit.TypeSessionRejected,
			SessionID: sessionID,
			Success:   false,
		})
		return nil, ErrUnauthorized
	}

	p := sess.Principal
	return &p, nil
}

// Logout destroys one session. Unknown ids succeed; logout is
// idempotent.
func (e *Engine) Logout(ctx context.Context, sessionID string) error {
	if err := e.sessions.Destroy(ctx, sessionID); err != nil {
		e.metrics.Inc(metrics.InfraError)
		return infraErr("logout", err)
	}
	e.metrics.Inc(metrics.Logout)
	e.metrics.Inc(metrics.SessionInvalidated)
	e.emit(ctx, audit.Event{
		EventType: audit.TypeLogout,
		SessionID: sessionID,
		Success:   true,
	})
	return nil
}

// LogoutAll revokes every session belonging to the user.
func (e *Engine) LogoutAll(ctx context.Context, userID string) error {
	if err := e.sessions.DestroyAllForUser(ctx, userID); err != nil {
		e.metrics.Inc(metrics.InfraError)
		return infraErr("logout all", err)
	}
	e.metrics.Inc(metrics.LogoutAll)
	e.metrics.Inc(metrics.SessionInvalidated)
	e.emit(ctx, audit.Event{
		EventType: audit.TypeLogout,
		UserID:    userID,
		Success:   true,
		Metadata:  map[string]any{"scope": "all"},
	})
	return nil
}
