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
	"github.com/halcyon-labs/reqguard/store"
)

// ChangePassword re-proves the current credential before accepting the
// new one and stamps lastPasswordChange on success.
func (e *Engine) ChangePassword(ctx context.Context, userID, sessionID, currentPassword, newPassword string) error {
	res := schema.PasswordChange().Validate(map[string]any{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	})
	if !res.Valid {
		e.metrics.Inc(metrics.ValidationFailure)
		return newValidationError(res)
	}

	profile, err := e.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnauthorized
		}
		e.metrics.Inc(metrics.InfraError)
		return infraErr("password change", err)
	}

	if err := e.provider.Reauthenticate(ctx, profile.ID, currentPassword); err != nil {
		if errors.Is(err, identity.ErrBadCredentials) {
			e.metrics.Inc(metrics.PasswordChangeFailure)
			e.emit(ctx, audit.Event{
				EventType: audit.TypePasswordChange,
				UserID:    profile.ID,
				Email:     profile.Email,
				Success:   false,
				Error:     "reauthentication failed",
			})
			return ErrInvalidCredentials
		}
		e.metrics.Inc(metrics.InfraError)
		return infraErr("password change", err)
	}

	if err := e.provider.UpdatePassword(ctx, profile.ID, newPassword); err != nil {
		e.metrics.Inc(metrics.InfraError)
		return infraErr("password change", err)
	}

	now := e.clock()
	profile.Security.LastPasswordChange = &now
	if err := e.users.Save(ctx, profile); err != nil {
		e.warn("password-change timestamp not persisted", err, zap.String("user_id", profile.ID))
	}

	e.metrics.Inc(metrics.PasswordChangeSuccess)
	e.emit(ctx, audit.Event{
		EventType: audit.TypePasswordChange,
		UserID:    profile.ID,
		Email:     profile.Email,
		SessionID: sessionID,
		Success:   true,
	})
	return nil
}

// RequestPasswordReset asks the identity provider to start a reset
// flow. It reports success whether or not the email maps to an
// account, so the endpoint reveals nothing about who is registered.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	email = sanitize.Email(email)
	res := schema.PasswordReset().Validate(map[string]any{"email": email})
	if !res.Valid {
		e.metrics.Inc(metrics.ValidationFailure)
		return newValidationError(res)
	}

	if err := e.provider.SendPasswordReset(ctx, email); err != nil {
		// Swallowed on purpose. Surfacing "no such account" here would
		// undo the enumeration guarantee.
		e.warn("password reset dispatch failed", err, zap.String("email", email))
	}

	e.metrics.Inc(metrics.PasswordResetRequest)
	e.emit(ctx, audit.Event{
		EventType: audit.TypePasswordReset,
		Email:     email,
		Success:   true,
	})
	return nil
}
