package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
)

const (
	// TokenCookie is readable by client scripts so the token can be echoed
	// back in the request header.
	TokenCookie = "csrf-token"
	// SecretCookie is httpOnly; the secret never reaches client scripts.
	SecretCookie = "csrf-secret"
	// Header carries the echoed token on mutating requests.
	Header = "X-CSRF-Token"

	tokenSize  = 32
	secretSize = 32
)

// Pair is one issued token/secret pair. Token travels to the client twice
// (cookie and response header); Secret stays server-side-only in an httpOnly
// cookie.
type Pair struct {
	Token  string
	Secret string
}

// Issue generates a fresh unguessable pair from crypto/rand.
func Issue() (Pair, error) {
	token, err := randomString(tokenSize)
	if err != nil {
		return Pair{}, err
	}
	secret, err := randomString(secretSize)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Token: token, Secret: secret}, nil
}

// Verify reports whether suppliedToken proves possession of the issued pair.
// Both sides are keyed-hashed with the secret and compared constant-time, so
// verification latency does not depend on where a mismatch occurs and raw
// secret material is never compared directly.
func Verify(storedToken, storedSecret, suppliedToken string) bool {
	if storedToken == "" || storedSecret == "" || suppliedToken == "" {
		return false
	}

	expected := digest(storedSecret, storedToken)
	supplied := digest(storedSecret, suppliedToken)
	return subtle.ConstantTimeCompare(expected, supplied) == 1
}

// Write sets the pair's cookies and mirrors the token into the response
// header. secure toggles the Secure cookie attribute for production TLS.
func Write(w http.ResponseWriter, pair Pair, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    pair.Token,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     SecretCookie,
		Value:    pair.Secret,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set(Header, pair.Token)
}

// FromRequest extracts the stored pair and the supplied token from an
// inbound request. ok is false when any of the three is missing; the caller
// must treat that as a rejection, not as "no CSRF required".
func FromRequest(r *http.Request) (stored Pair, supplied string, ok bool) {
	tokenCookie, err := r.Cookie(TokenCookie)
	if err != nil || tokenCookie.Value == "" {
		return Pair{}, "", false
	}
	secretCookie, err := r.Cookie(SecretCookie)
	if err != nil || secretCookie.Value == "" {
		return Pair{}, "", false
	}
	supplied = r.Header.Get(Header)
	if supplied == "" {
		return Pair{}, "", false
	}
	return Pair{Token: tokenCookie.Value, Secret: secretCookie.Value}, supplied, true
}

func digest(secret, token string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return mac.Sum(nil)
}

func randomString(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
