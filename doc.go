// Package reqguard is a request-security middleware core: input
// sanitization, schema validation, file upload vetting, account and
// session management with lockout, CSRF double-submit protection, and
// fixed-window rate limiting, composed into one HTTP pipeline.
//
// The package is designed for concurrent server workloads: Engine
// methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// reqguard is the public surface. It exposes [Engine], [Builder],
// [Config], the sentinel errors, and the context helpers. Leaf
// concerns live in their own sub-packages (sanitize, schema,
// filecheck, csrf, session, permission, jwt, password, identity,
// store, metrics), none of which import this one. The middleware and
// metrics/export packages sit above the engine and do import it. Audit
// dispatch and rate limiting live under internal/ and are reached only
// through the engine and the middleware.
//
// # What this package must NOT do
//
//   - Expose Redis clients, document-store handles, or hash formats in
//     its public API.
//   - Perform I/O outside of Engine methods (construction via Builder
//     is allocation-only until Build).
//   - Distinguish unknown-account from wrong-credential outcomes
//     anywhere a caller could observe the difference.
//
// # Failure posture
//
// Session validation fails closed: expiry, binding mismatch, and
// backend trouble all collapse to an authorization failure, and a
// session that fails a check is destroyed, not retried. Rate-limit
// counters fail open by policy so a counter outage degrades to
// unlimited traffic rather than a full outage; the degradation is
// logged and counted.
package reqguard
