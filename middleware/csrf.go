package middleware

import (
	"net/http"

	reqguard "github.com/halcyon-labs/reqguard"
	"github.com/halcyon-labs/reqguard/csrf"
)

// CSRF enforces the double-submit check on mutating requests. Safe
// methods pass through. Missing material is a rejection, not an
// exemption.
func CSRF(engine *reqguard.Engine) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			stored, supplied, ok := csrf.FromRequest(r)
			if !ok {
				writeJSONError(w, http.StatusForbidden, "invalid csrf token")
				return
			}
			if err := engine.VerifyCSRF(r.Context(), stored, supplied); err != nil {
				writeJSONError(w, http.StatusForbidden, "invalid csrf token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IssueCSRF is a handler that mints and writes a fresh token pair,
// typically mounted at a GET endpoint the client hits before its first
// mutating request. Cookie security attributes follow the engine config.
func IssueCSRF(engine *reqguard.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pair, err := engine.IssueCSRF()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		csrf.Write(w, pair, engine.CSRFCookieSecure())
		w.WriteHeader(http.StatusNoContent)
	})
}
