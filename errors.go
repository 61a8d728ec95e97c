package reqguard

import (
	"errors"
	"fmt"

	"github.com/halcyon-labs/reqguard/schema"
)

var (
	// ErrInvalidInput marks validation failures. Concrete field errors
	// travel in a [ValidationError].
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials covers wrong password and unknown email
	// alike, so callers cannot probe for registered addresses.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is returned while a lockout window is active.
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountDisabled is returned for deactivated accounts after a
	// successful credential check.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrDuplicateEmail rejects registration on an already-taken email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUnauthorized covers missing, expired, or mismatched sessions
	// and tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPermissionDenied means authenticated but insufficient
	// permission. No detail on which permission was missing.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRateLimited means the caller exhausted its class budget and
	// should back off.
	ErrRateLimited = errors.New("too many requests")
	// ErrSecurityViolation covers CSRF mismatches, spoofed uploads, and
	// content-scan findings.
	ErrSecurityViolation = errors.New("security violation")
	// ErrInfraUnavailable wraps store and identity-provider failures.
	// Not retried here; retry policy belongs to the caller.
	ErrInfraUnavailable = errors.New("infrastructure unavailable")
	// ErrProfilePersist is returned when registration created the
	// identity-provider credential but the profile write failed,
	// leaving an orphaned credential. No automatic rollback.
	ErrProfilePersist = errors.New("profile persistence failed after account creation")
	// ErrSessionNotFound is returned by explicit destroys of unknown
	// sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEngineNotReady guards calls on a nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// ValidationError carries the per-field messages of a schema rejection.
// errors.Is(err, ErrInvalidInput) matches it.
type ValidationError struct {
	Fields []schema.FieldError
}

func newValidationError(result schema.Result) *ValidationError {
	return &ValidationError{Fields: result.Errors}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Messages flattens the field errors into the ordered list the HTTP
// boundary returns.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		out = append(out, fe.Field+": "+fe.Message)
	}
	return out
}

func infraErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInfraUnavailable, op, err)
}
