package reqguard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/halcyon-labs/reqguard/identity"
	"github.com/halcyon-labs/reqguard/internal/audit"
	"github.com/halcyon-labs/reqguard/metrics"
	"github.com/halcyon-labs/reqguard/sanitize"
	"github.com/halcyon-labs/reqguard/schema"
	"github.com/halcyon-labs/reqguard/session"
	"github.com/halcyon-labs/reqguard/store"
)

// Login verifies credentials, runs the lockout state machine, and on
// success issues a session bound to the caller's IP and user agent
// (taken from the context via WithClientIP and WithUserAgent).
//
// Unknown email and wrong password return the same ErrInvalidCredentials
// so the endpoint cannot be used to enumerate accounts. A locked
// account is rejected before any credential work is done.
func (e *Engine) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	record := map[string]any{
		"email":    sanitize.Email(email),
		"password": password,
	}
	res := schema.Login().Validate(record)
	if !res.Valid {
		e.metrics.Inc(metrics.ValidationFailure)
		return nil, newValidationError(res)
	}
	email = res.Record["email"].(string)

	profile, err := e.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		e.metrics.Inc(metrics.InfraError)
		return nil, infraErr("login", err)
	}

	now := e.clock()
	if profile != nil && profile.Locked(now) {
		e.metrics.Inc(metrics.LoginLocked)
		e.emit(ctx, audit.Event{
			EventType: audit.TypeLoginLocked,
			UserID:    profile.ID,
			Email:     email,
			Success:   false,
		})
		return nil, ErrAccountLocked
	}

	if _, err := e.provider.VerifyCredentials(ctx, email, password); err != nil {
		if errors.Is(err, identity.ErrBadCredentials) {
			e.recordFailedLogin(ctx, profile, email)
			return nil, ErrInvalidCredentials
		}
		e.metrics.Inc(metrics.InfraError)
		return nil, infraErr("login", err)
	}

	// Credentials without a profile mean a half-registered account.
	// Fail closed rather than minting a session for a ghost.
	if profile == nil {
		e.metrics.Inc(metrics.LoginFailure)
		return nil, ErrInvalidCredentials
	}

	if !profile.Active {
		e.metrics.Inc(metrics.LoginFailure)
		e.emit(ctx, audit.Event{
			EventType: audit.TypeLogin,
			UserID:    profile.ID,
			Email:     email,
			Success:   false,
			Error:     "account deactivated",
		})
		return nil, ErrAccountDisabled
	}

	profile.Security.LoginAttempts = 0
	profile.Security.LockedUntil = nil
	profile.LastLoginAt = &now
	if err := e.users.Save(ctx, profile); err != nil {
		e.metrics.Inc(metrics.InfraError)
		return nil, infraErr("login", err)
	}

	sessionID, err := e.sessions.Create(ctx, session.Principal{
		UserID: profile.ID,
		Email:  profile.Email,
		Role:   profile.Role,
	}, clientIPFromContext(ctx), userAgentFromContext(ctx))
	if err != nil {
		e.metrics.Inc(metrics.InfraError)
		return nil, infraErr("login", err)
	}
	e.metrics.Inc(metrics.SessionCreated)

	out := &LoginResult{SessionID: sessionID, Profile: profile}
	if e.tokens != nil {
		token, err := e.tokens.Issue(profile.ID, profile.Email, profile.Role)
		if err != nil {
			e.warn("token issuance failed", err, zap.String("user_id", profile.ID))
		} else {
			out.Token = token
		}
	}

	e.metrics.Inc(metrics.LoginSuccess)
	e.emit(ctx, audit.Event{
		EventType: audit.TypeLogin,
		UserID:    profile.ID,
		Email:     email,
		SessionID: sessionID,
		Success:   true,
	})
	return out, nil
}

// recordFailedLogin advances the lockout counter. A miss against an
// unknown email burns the same response but has no counter to bump.
func (e *Engine) recordFailedLogin(ctx context.Context, profile *UserProfile, email string) {
	e.metrics.Inc(metrics.LoginFailure)
	if profile == nil {
		return
	}

	profile.Security.LoginAttempts++
	event := audit.Event{
		EventType: audit.TypeLogin,
		UserID:    profile.ID,
		Email:     email,
		Success:   false,
		Error:     "invalid credentials",
	}

	if profile.Security.LoginAttempts >= e.config.Lockout.Threshold {
		until := e.clock().Add(e.config.Lockout.Duration)
		profile.Security.LockedUntil = &until
		event = audit.Event{
			EventType: audit.TypeLockout,
			UserID:    profile.ID,
			Email:     email,
			Success:   false,
			Metadata: map[string]any{
				"attempts":     profile.Security.LoginAttempts,
				"locked_until": until,
			},
		}
	}

	if err := e.users.Save(ctx, profile); err != nil {
		// Losing the counter weakens lockout but must not change the
		// caller-visible outcome of a failed login.
		e.warn("failed-login counter not persisted", err, zap.String("user_id", profile.ID))
	}
	e.emit(ctx, event)
}
