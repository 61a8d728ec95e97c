// Package middleware composes the request-security pipeline as standard
// func(http.Handler) http.Handler decorators.
//
// # Chain order
//
// [Chain] applies decorators outermost-first. The canonical order is
//
//	Recover → RequestID → Logging → RateLimit → CORS → Guard →
//	RequirePermission → CSRF → handler, with [SecurityHeaders] wrapped
//	around the whole stack so every response carries the headers.
//
// [Secure] builds that stack in one call for the common case.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls: it reads
// cookies and headers, stamps the client IP and user agent into the
// request context, and maps Engine errors onto status codes. It does
// NOT implement security logic itself.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to the Engine).
//   - Touch session, counter, or profile storage.
//   - Leak failure detail: rejections carry generic bodies only.
package middleware
