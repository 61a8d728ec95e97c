package middleware

import (
	"errors"
	"net/http"
	"strconv"

	reqguard "github.com/halcyon-labs/reqguard"
	"github.com/halcyon-labs/reqguard/internal/ratelimit"
)

// RateLimit gates requests through the engine's fixed-window budget
// for the class. Rejections return 429 with a message body and a
// Retry-After header derived from the class window.
func RateLimit(engine *reqguard.Engine, class reqguard.RateClass) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := engine.AllowRate(r.Context(), class, ratelimit.ClientIdentifier(r))
			if errors.Is(err, reqguard.ErrRateLimited) {
				if window, ok := engine.RateWindow(class); ok {
					w.Header().Set("Retry-After", strconv.Itoa(int(window.Window.Seconds())))
				}
				writeJSONError(w, http.StatusTooManyRequests, "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
