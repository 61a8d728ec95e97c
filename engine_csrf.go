package reqguard

import (
	"context"

	"github.com/halcyon-labs/reqguard/csrf"
	"github.com/halcyon-labs/reqguard/internal/audit"
	"github.com/halcyon-labs/reqguard/metrics"
)

// IssueCSRF generates a fresh token pair for the double-submit scheme.
// The HTTP boundary writes it out via csrf.Write.
func (e *Engine) IssueCSRF() (csrf.Pair, error) {
	return csrf.Issue()
}

// CSRFCookieSecure reports whether issued token cookies must carry the
// Secure attribute: always in production, and in development when the
// config opts in.
func (e *Engine) CSRFCookieSecure() bool {
	return e.config.CSRF.CookieSecure || e.config.Production()
}

// VerifyCSRF checks a supplied token against the stored pair. Any
// failure is a security violation: it is counted, audited, and
// reported as ErrSecurityViolation without detail.
func (e *Engine) VerifyCSRF(ctx context.Context, stored csrf.Pair, supplied string) error {
	if csrf.Verify(stored.Token, stored.Secret, supplied) {
		return nil
	}
	e.metrics.Inc(metrics.CSRFRejected)
	e.metrics.Inc(metrics.SecurityViolation)
	e.emit(ctx, audit.Event{
		EventType: audit.TypeCSRFRejected,
		Success:   false,
	})
	return ErrSecurityViolation
}
