package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientIdentifier derives the rate-limit key for a request from forwarded
// headers with a same-request fallback chain: first X-Forwarded-For entry,
// then X-Real-IP, then the socket address, then "unknown". Spoofable
// headers are acceptable here — the limiter throttles abuse, it does not
// authenticate.
func ClientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
