package middleware

import (
	"net/http"

	"go.uber.org/zap"

	reqguard "github.com/halcyon-labs/reqguard"
)

// Middleware is one pipeline stage.
type Middleware func(http.Handler) http.Handler

// Chain applies the stages outermost-first: Chain(h, a, b) serves
// a(b(h)).
func Chain(h http.Handler, stages ...Middleware) http.Handler {
	for i := len(stages) - 1; i >= 0; i-- {
		h = stages[i](h)
	}
	return h
}

// Secure wraps a handler in the full pipeline for one rate class:
// panic recovery, request id, logging, rate limiting, CORS,
// authentication, CSRF, and security headers. Permission gates are
// added per-route with [RequirePermission].
func Secure(engine *reqguard.Engine, logger *zap.Logger, class reqguard.RateClass, cors CORSConfig, h http.Handler) http.Handler {
	return SecurityHeaders(engine)(Chain(h,
		Recover(logger),
		RequestID(),
		Logging(logger),
		RateLimit(engine, class),
		CORS(cors),
		Guard(engine),
		CSRF(engine),
	))
}
