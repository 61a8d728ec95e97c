// Package metrics provides lock-free counters and a latency histogram
// for the security core.
//
// # Design
//
// Counters live in cache-line-padded uint64 slots incremented with
// sync/atomic. The session-validation histogram uses 8 fixed buckets
// (≤5ms … +Inf). Both are allocation-free on the write path.
//
// # Architecture boundaries
//
// This package owns metric storage and snapshots. Export lives in
// metrics/export/ and reads Snapshot values.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Expose global metric registries.
package metrics

import (
	"sync/atomic"
	"time"
)

// ID identifies a single metric slot.
type ID uint16

const (
	// LoginSuccess counts successful logins.
	LoginSuccess ID = iota
	// LoginFailure counts rejected credential attempts.
	LoginFailure
	// LoginLocked counts logins rejected by an active lockout.
	LoginLocked
	// LoginRateLimited counts logins rejected by the auth-class limiter.
	LoginRateLimited
	// RegisterSuccess counts created accounts.
	RegisterSuccess
	// RegisterDuplicate counts registrations rejected on a taken email.
	RegisterDuplicate
	// PasswordChangeSuccess counts completed password changes.
	PasswordChangeSuccess
	// PasswordChangeFailure counts password changes failing reauth.
	PasswordChangeFailure
	// PasswordResetRequest counts reset requests, known email or not.
	PasswordResetRequest
	// SessionCreated counts created sessions.
	SessionCreated
	// SessionInvalidated counts sessions destroyed by logout or
	// deactivation.
	SessionInvalidated
	// SessionRejected counts validations that failed closed: idle
	// timeout, binding mismatch, or unknown id.
	SessionRejected
	// Logout counts single-session logouts.
	Logout
	// LogoutAll counts all-session logouts.
	LogoutAll
	// CSRFRejected counts requests failing token verification.
	CSRFRejected
	// RateLimitHit counts requests denied by any limiter class.
	RateLimitHit
	// FileAccepted counts uploads passing full validation.
	FileAccepted
	// FileRejected counts uploads failing validation or content scan.
	FileRejected
	// ValidationFailure counts schema validation rejections.
	ValidationFailure
	// SecurityViolation counts CSRF, spoofed-file, and scan findings.
	SecurityViolation
	// InfraError counts store or identity-provider failures.
	InfraError
	// ValidateLatency is the session-validation latency histogram.
	ValidateLatency

	idCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

// Config enables metric collection; both flags default to off.
type Config struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

type histogram struct {
	buckets [histBucketCount]uint64
}

// Metrics is the counter bank. The zero value is disabled; a nil
// receiver is safe everywhere.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [idCount]paddedCounter
	histograms    [idCount]histogram
}

// Snapshot is a point-in-time copy for exporters.
type Snapshot struct {
	Counters   map[ID]uint64
	Histograms map[ID][]uint64
}

// New builds a counter bank per cfg.
func New(cfg Config) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters record at all.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id ID) {
	if m == nil || !m.enabled || id >= idCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample. Only ValidateLatency carries a
// histogram.
func (m *Metrics) Observe(id ID, d time.Duration) {
	if m == nil || !m.enableLatency || id != ValidateLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value reads one counter.
func (m *Metrics) Value(id ID) uint64 {
	if m == nil || id >= idCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// SnapshotAll copies every counter and histogram.
func (m *Metrics) SnapshotAll() Snapshot {
	if m == nil || !m.enabled {
		return Snapshot{Counters: map[ID]uint64{}, Histograms: map[ID][]uint64{}}
	}

	s := Snapshot{
		Counters:   make(map[ID]uint64, int(idCount)),
		Histograms: make(map[ID][]uint64, 1),
	}
	for id := ID(0); id < idCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := range buckets {
			buckets[i] = atomic.LoadUint64(&m.histograms[ValidateLatency].buckets[i])
		}
		s.Histograms[ValidateLatency] = buckets
	}
	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()
	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
