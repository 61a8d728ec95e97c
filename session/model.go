package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"
)

// Principal is the identity snapshot a session carries. Role is captured at
// login; a role change takes effect on the next login, not mid-session.
type Principal struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Session is one authenticated client context. The client IP and user agent
// are stored only as SHA-256 hashes; raw values never persist.
type Session struct {
	ID            string    `json:"-"`
	Principal     Principal `json:"principal"`
	CreatedAt     time.Time `json:"createdAt"`
	LastActivity  time.Time `json:"lastActivity"`
	IPHash        [32]byte  `json:"ipHash"`
	UserAgentHash [32]byte  `json:"userAgentHash"`
}

// HashBinding hashes a client binding value (IP or user agent) for storage
// and comparison.
func HashBinding(v string) [32]byte {
	return sha256.Sum256([]byte(v))
}

const sessionIDSize = 16

// NewID returns an unguessable session identifier: 16 bytes from
// crypto/rand, base64url without padding.
func NewID() (string, error) {
	var raw [sessionIDSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// ValidID reports whether s has the shape of a generated session ID. Used to
// reject garbage before any store lookup.
func ValidID(s string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil && len(raw) == sessionIDSize
}

// ErrUnavailable indicates the session backend is unreachable. It is the
// session-layer face of the infrastructure error taxonomy.
var ErrUnavailable = errors.New("session backend unavailable")
