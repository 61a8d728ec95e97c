// Package csrf implements double-submit-cookie anti-forgery tokens.
//
// # Scheme
//
// [Issue] creates a (token, secret) pair. The token is delivered to the
// client twice — a readable cookie and the response header — while the
// secret lives only in an httpOnly cookie. A mutating request is accepted
// only when the echoed token, keyed-hashed with the stored secret, matches
// the stored token's keyed hash under a constant-time compare.
//
// # What this package must NOT do
//
//   - Compare raw secret or token material directly.
//   - Decide which requests need protection — the middleware package scopes
//     enforcement to state-changing methods.
package csrf
