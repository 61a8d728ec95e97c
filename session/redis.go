package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the multi-instance [Store]: sessions live in Redis with the
// idle timeout expressed as a sliding TTL. It is the drop-in replacement for
// [MemoryStore] when deployments outgrow sticky sessions; callers only
// depend on the Store contract, so the swap is a single substitution point.
type RedisStore struct {
	redis   redis.UniversalClient
	prefix  string
	timeout time.Duration
	now     func() time.Time
}

// NewRedisStore creates a Redis-backed session store. prefix namespaces the
// keys; timeout is the idle timeout.
func NewRedisStore(client redis.UniversalClient, prefix string, timeout time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "rgs"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RedisStore{redis: client, prefix: prefix, timeout: timeout, now: time.Now}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *RedisStore) userKey(userID string) string {
	return s.prefix + ":u:" + userID
}

// Create persists a new bound session with the idle-timeout TTL and indexes
// it by user for DestroyAllForUser.
func (s *RedisStore) Create(ctx context.Context, p Principal, ip, userAgent string) (string, error) {
	id, err := NewID()
	if err != nil {
		return "", err
	}

	now := s.now()
	sess := &Session{
		ID:            id,
		Principal:     p,
		CreatedAt:     now,
		LastActivity:  now,
		IPHash:        HashBinding(ip),
		UserAgentHash: HashBinding(userAgent),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(id), data, s.timeout)
		pipe.SAdd(ctx, s.userKey(p.UserID), id)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return id, nil
}

// Validate fetches the session, enforces binding, and slides the TTL. The
// TTL already encodes the idle timeout, so an expired session simply reads
// as missing; binding mismatches delete eagerly.
func (s *RedisStore) Validate(ctx context.Context, sessionID, ip, userAgent string) (*Session, error) {
	if !ValidID(sessionID) {
		return nil, nil
	}

	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupt blob: fail closed.
		_ = s.Destroy(ctx, sessionID)
		return nil, nil
	}
	sess.ID = sessionID

	if !bindingMatches(&sess, ip, userAgent) {
		if err := s.Destroy(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	sess.LastActivity = s.now()
	updated, err := json.Marshal(&sess)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, s.key(sessionID), updated, s.timeout).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &sess, nil
}

// Destroy removes the session and its user-index entry.
func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var sess Session
	userID := ""
	if json.Unmarshal(data, &sess) == nil {
		userID = sess.Principal.UserID
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(sessionID))
		if userID != "" {
			pipe.SRem(ctx, s.userKey(userID), sessionID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DestroyAllForUser removes every indexed session for the user. Sessions
// created concurrently with this call may survive; they expire by TTL.
func (s *RedisStore) DestroyAllForUser(ctx context.Context, userID string) error {
	ids, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Del(ctx, s.key(id))
		}
		pipe.Del(ctx, s.userKey(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op; Redis TTLs replace the memory store's sweeper.
func (s *RedisStore) Close() error { return nil }
