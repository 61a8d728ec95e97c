package session

import "context"

// Store is the session lifecycle contract. Both implementations fail
// closed: any binding mismatch or expiry observed during Validate deletes
// the session before reporting it invalid.
//
// Validate returns (nil, nil) for "no valid session" — an error return is
// reserved for infrastructure failure, mirroring the engine's taxonomy.
type Store interface {
	// Create issues a new session bound to the presenting client.
	Create(ctx context.Context, p Principal, ip, userAgent string) (string, error)

	// Validate looks up the session, enforces idle timeout and IP/UA
	// binding, and bumps last-activity on success.
	Validate(ctx context.Context, sessionID, ip, userAgent string) (*Session, error)

	// Destroy removes the session. Deleting a missing session is not an
	// error.
	Destroy(ctx context.Context, sessionID string) error

	// DestroyAllForUser removes every session belonging to the user.
	DestroyAllForUser(ctx context.Context, userID string) error

	// Close releases background resources (the memory store's sweeper).
	Close() error
}
