package middleware

import (
	"context"
	"net/http"
	"strings"

	reqguard "github.com/halcyon-labs/reqguard"
	"github.com/halcyon-labs/reqguard/permission"
	"github.com/halcyon-labs/reqguard/session"
)

// SessionCookie carries the opaque session reference for browser
// clients. API clients use Authorization: Bearer instead.
const SessionCookie = "session-id"

type principalContextKey struct{}

// PrincipalFromContext returns the principal resolved by [Guard].
func PrincipalFromContext(ctx context.Context) (*session.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*session.Principal)
	return p, ok
}

// Guard authenticates the request: a session-id cookie is validated
// against the session store with its client binding, a bearer token
// against the token manager. Either path yields a principal in the
// context; every failure is a generic 401.
func Guard(engine *reqguard.Engine) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := resolvePrincipal(engine, r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), principalContextKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission gates a route on a capability of the authenticated
// principal's role. Must run inside [Guard].
func RequirePermission(engine *reqguard.Engine, perm permission.Permission) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !engine.Can(p.Role, perm) {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolvePrincipal(engine *reqguard.Engine, r *http.Request) (*session.Principal, bool) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		p, err := engine.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			return nil, false
		}
		return p, true
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok || engine.Tokens() == nil {
		return nil, false
	}
	claims, err := engine.Tokens().Parse(token)
	if err != nil {
		return nil, false
	}
	return &session.Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, true
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	token := value[len(bearer):]
	if token == "" {
		return "", false
	}
	return token, true
}
