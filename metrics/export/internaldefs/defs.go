package internaldefs

import "github.com/halcyon-labs/reqguard/metrics"

// CounterDef maps a metric slot to its exported name and help text.
type CounterDef struct {
	ID   metrics.ID
	Name string
	Help string
}

// HistogramDef maps a histogram slot to its exported name and help text.
type HistogramDef struct {
	ID   metrics.ID
	Name string
	Help string
}

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: metrics.LoginSuccess, Name: "reqguard_login_success_total", Help: "Successful login attempts."},
	{ID: metrics.LoginFailure, Name: "reqguard_login_failure_total", Help: "Failed credential attempts."},
	{ID: metrics.LoginLocked, Name: "reqguard_login_locked_total", Help: "Logins rejected by an active account lockout."},
	{ID: metrics.LoginRateLimited, Name: "reqguard_login_rate_limited_total", Help: "Logins rejected by the auth rate limiter."},
	{ID: metrics.RegisterSuccess, Name: "reqguard_register_success_total", Help: "Created accounts."},
	{ID: metrics.RegisterDuplicate, Name: "reqguard_register_duplicate_total", Help: "Registrations rejected on an already-registered email."},
	{ID: metrics.PasswordChangeSuccess, Name: "reqguard_password_change_success_total", Help: "Completed password changes."},
	{ID: metrics.PasswordChangeFailure, Name: "reqguard_password_change_failure_total", Help: "Password changes failing re-authentication."},
	{ID: metrics.PasswordResetRequest, Name: "reqguard_password_reset_request_total", Help: "Password reset requests, known email or not."},
	{ID: metrics.SessionCreated, Name: "reqguard_session_created_total", Help: "Created sessions."},
	{ID: metrics.SessionInvalidated, Name: "reqguard_session_invalidated_total", Help: "Sessions destroyed by logout or deactivation."},
	{ID: metrics.SessionRejected, Name: "reqguard_session_rejected_total", Help: "Session validations that failed closed."},
	{ID: metrics.Logout, Name: "reqguard_logout_total", Help: "Single-session logouts."},
	{ID: metrics.LogoutAll, Name: "reqguard_logout_all_total", Help: "All-session logouts."},
	{ID: metrics.CSRFRejected, Name: "reqguard_csrf_rejected_total", Help: "Requests failing CSRF verification."},
	{ID: metrics.RateLimitHit, Name: "reqguard_rate_limit_hit_total", Help: "Requests denied by any rate-limit class."},
	{ID: metrics.FileAccepted, Name: "reqguard_file_accepted_total", Help: "Uploads passing full validation."},
	{ID: metrics.FileRejected, Name: "reqguard_file_rejected_total", Help: "Uploads failing validation or content scan."},
	{ID: metrics.ValidationFailure, Name: "reqguard_validation_failure_total", Help: "Schema validation rejections."},
	{ID: metrics.SecurityViolation, Name: "reqguard_security_violation_total", Help: "CSRF, spoofed-file, and content-scan findings."},
	{ID: metrics.InfraError, Name: "reqguard_infra_error_total", Help: "Store or identity-provider failures."},
}

// HistogramDefs lists every exported histogram in render order.
var HistogramDefs = []HistogramDef{
	{ID: metrics.ValidateLatency, Name: "reqguard_validate_latency_seconds", Help: "Session validation latency."},
}

// HistogramBounds are the bucket upper bounds in render order.
var HistogramBounds = [8]string{
	"0.005", "0.01", "0.025", "0.05", "0.1", "0.25", "0.5", "+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with characters legal in
// instrument names, for exporters that flatten buckets into one metric
// per bound.
var HistogramBoundSuffix = [8]string{
	"0_005", "0_01", "0_025", "0_05", "0_1", "0_25", "0_5", "inf",
}

// NormalizeBuckets pads or trims a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// the Prometheus exposition format requires.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := range raw {
		running += raw[i]
		out[i] = running
	}
	return out
}
