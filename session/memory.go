package session

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

const (
	// DefaultTimeout is the idle timeout after which a session expires.
	DefaultTimeout = 30 * time.Minute
	// DefaultSweepInterval is how often the background sweep runs.
	DefaultSweepInterval = 15 * time.Minute
	// DefaultMaxSessions caps the in-memory store so memory stays bounded
	// regardless of client churn.
	DefaultMaxSessions = 100_000
)

// MemoryConfig tunes a [MemoryStore]. Zero values take the defaults above.
type MemoryConfig struct {
	Timeout       time.Duration
	SweepInterval time.Duration
	MaxSessions   int
}

// MemoryStore is a bounded in-process session store with lazy expiry on
// lookup plus a periodic sweep. State is process-local: acceptable for
// single-instance or sticky-session deployments only — multi-instance
// deployments swap in [RedisStore] behind the same [Store] interface.
type MemoryStore struct {
	timeout time.Duration
	max     int
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	byUser   map[string]map[string]struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a memory store and starts its sweep goroutine.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}

	s := &MemoryStore{
		timeout:  cfg.Timeout,
		max:      cfg.MaxSessions,
		now:      time.Now,
		sessions: make(map[string]*Session),
		byUser:   make(map[string]map[string]struct{}),
		stop:     make(chan struct{}),
	}

	go s.sweepLoop(cfg.SweepInterval)
	return s
}

// Create issues a new bound session. When the store is full, the stalest
// session is evicted first so a churn attack cannot wedge logins.
func (s *MemoryStore) Create(_ context.Context, p Principal, ip, userAgent string) (string, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.max {
		s.evictStalestLocked()
	}

	s.sessions[id] = sess
	if s.byUser[p.UserID] == nil {
		s.byUser[p.UserID] = make(map[string]struct{})
	}
	s.byUser[p.UserID][id] = struct{}{}
	return id, nil
}

// Validate enforces idle timeout and client binding, deleting the session
// on any failure (fail closed) and refreshing last-activity on success.
func (s *MemoryStore) Validate(_ context.Context, sessionID, ip, userAgent string) (*Session, error) {
	if !ValidID(sessionID) {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}

	now := s.now()
	if now.Sub(sess.LastActivity) > s.timeout || !bindingMatches(sess, ip, userAgent) {
		s.deleteLocked(sessionID)
		return nil, nil
	}

	sess.LastActivity = now
	snapshot := *sess
	return &snapshot, nil
}

// Destroy removes the session; missing sessions are a no-op so destroy is
// idempotent and safe to race with the sweep.
func (s *MemoryStore) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(sessionID)
	return nil
}

// DestroyAllForUser removes every session belonging to the user.
func (s *MemoryStore) DestroyAllForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.byUser[userID] {
		s.deleteLocked(id)
	}
	return nil
}

// Close stops the sweep goroutine. Idempotent.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Len reports the live session count (expired-but-unswept included).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

// Sweep deletes every idle-expired session. Delete-if-expired is idempotent,
// so the sweep is safe to run concurrently with live validation.
func (s *MemoryStore) Sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.timeout {
			s.deleteLocked(id)
		}
	}
}

func (s *MemoryStore) deleteLocked(sessionID string) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	delete(s.sessions, sessionID)

	ids := s.byUser[sess.Principal.UserID]
	delete(ids, sessionID)
	if len(ids) == 0 {
		delete(s.byUser, sess.Principal.UserID)
	}
}

func (s *MemoryStore) evictStalestLocked() {
	var (
		stalest   string
		stalestAt time.Time
	)
	for id, sess := range s.sessions {
		if stalest == "" || sess.LastActivity.Before(stalestAt) {
			stalest = id
			stalestAt = sess.LastActivity
		}
	}
	if stalest != "" {
		s.deleteLocked(stalest)
	}
}

func bindingMatches(sess *Session, ip, userAgent string) bool {
	ipHash := HashBinding(ip)
	uaHash := HashBinding(userAgent)
	ipOK := subtle.ConstantTimeCompare(sess.IPHash[:], ipHash[:]) == 1
	uaOK := subtle.ConstantTimeCompare(sess.UserAgentHash[:], uaHash[:]) == 1
	return ipOK && uaOK
}
