// Package filecheck validates uploaded binary content against declared
// metadata: sanitized name, size bounds, extension allow-list, declared MIME
// membership, byte-signature agreement, an executable-extension deny-list,
// and an advisory text-content scan.
//
// # Contract
//
// [Validate] accumulates every violation instead of short-circuiting, so the
// upload boundary can return the complete ordered error list at once. The
// byte-signature cross-check is the binding defense against content-type
// spoofing; [ScanContent] is defense-in-depth on top of it, never a
// substitute.
//
// # What this package must NOT do
//
//   - Write files or touch storage — [StorageName] only derives a key.
//   - Trust the declared MIME type for anything beyond allow-list membership.
//   - Return partial binary diagnostics; errors are plain strings.
package filecheck
