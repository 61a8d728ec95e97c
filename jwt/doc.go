// Package jwt issues and verifies the bearer tokens carried in
// Authorization headers on the API path, with strict validation
// semantics: pinned algorithm, bounded clock skew, and a cap on
// future-dated issue times.
package jwt
