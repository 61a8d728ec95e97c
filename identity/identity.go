package identity

import (
	"context"
	"errors"
)

var (
	// ErrBadCredentials covers wrong password and unknown account alike,
	// so callers cannot distinguish the two.
	ErrBadCredentials = errors.New("invalid credentials")
	// ErrDuplicateAccount is returned by CreateAccount when the email is
	// already registered.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrUnavailable indicates the provider backend is unreachable.
	ErrUnavailable = errors.New("identity provider unavailable")
)

// Provider authenticates credentials and owns all raw password material.
// The engine only ever sees opaque principal ids.
type Provider interface {
	// VerifyCredentials checks email/password and returns the principal
	// id on success, ErrBadCredentials otherwise.
	VerifyCredentials(ctx context.Context, email, password string) (string, error)
	// CreateAccount registers a credential and returns the new principal
	// id.
	CreateAccount(ctx context.Context, email, password string) (string, error)
	// SendVerificationEmail triggers the address-verification mail for a
	// principal.
	SendVerificationEmail(ctx context.Context, principalID string) error
	// SendPasswordReset triggers a reset mail. Unknown emails are a
	// silent no-op so callers stay enumeration-safe.
	SendPasswordReset(ctx context.Context, email string) error
	// Reauthenticate re-proves the current password for a known
	// principal.
	Reauthenticate(ctx context.Context, principalID, currentPassword string) error
	// UpdatePassword replaces the stored credential.
	UpdatePassword(ctx context.Context, principalID, newPassword string) error
}

// Mailer delivers the provider's outbound mail. Implementations must not
// include credential material in what they send or log.
type Mailer interface {
	SendVerification(ctx context.Context, email, principalID string) error
	SendPasswordReset(ctx context.Context, email, resetToken string) error
}
