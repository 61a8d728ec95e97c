// Package sanitize provides pure, total normalization functions for untrusted
// input, one per semantic type (text, rich text, email, URL, filename, hex
// color, number, boolean) plus [Object] for structured records.
//
// # Contract
//
// Every function is total (never panics, never returns an error) and
// idempotent: sanitize(sanitize(x)) == sanitize(x). Sanitization reduces an
// input to a safe shape; it does not judge whether the result is a valid
// value — that is the schema package's job.
//
// # Architecture boundaries
//
// This package is a leaf. It holds no state beyond compiled regexps and the
// bluemonday policy, both immutable after init.
//
// # What this package must NOT do
//
//   - Import any other reqguard package.
//   - Report validation errors — invalid input is normalized, not rejected.
//   - Log or otherwise retain input values.
package sanitize
