// Package identity defines the external identity-provider contract: the
// collaborator that verifies credentials and returns stable principal
// ids. LocalProvider is a self-contained implementation over a document
// store and argon2id hashes.
//
// # Architecture boundaries
//
// This package owns credential storage and verification. Lockout,
// sessions, and profile data belong to the engine; this package never
// sees login attempt counters and never decides whether a login is
// allowed to proceed.
//
// # What this package must NOT do
//
//   - Report unknown-account and wrong-password differently.
//   - Store or log plaintext passwords or reset tokens.
package identity
