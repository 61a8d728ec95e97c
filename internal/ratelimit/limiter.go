package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Class identifies an operation class with its own window and budget.
type Class string

const (
	// ClassAuth throttles credential operations: login, register, reset.
	ClassAuth Class = "auth"
	// ClassAPI throttles general API traffic.
	ClassAPI Class = "api"
	// ClassUpload throttles file uploads.
	ClassUpload Class = "upload"
	// ClassAdmin throttles admin-surface traffic.
	ClassAdmin Class = "admin"
)

// Limit is a fixed-window budget.
type Limit struct {
	Max    int
	Window time.Duration
}

// DefaultLimits returns the predefined per-class budgets.
func DefaultLimits() map[Class]Limit {
	return map[Class]Limit{
		ClassAuth:   {Max: 5, Window: 15 * time.Minute},
		ClassAPI:    {Max: 100, Window: time.Minute},
		ClassUpload: {Max: 10, Window: time.Minute},
		ClassAdmin:  {Max: 50, Window: time.Minute},
	}
}

var (
	// ErrLimited is returned when a client exhausts its class budget.
	ErrLimited = errors.New("too many requests")
	// ErrUnavailable indicates the counter backend is unreachable.
	ErrUnavailable = errors.New("rate limit backend unavailable")
)

// Counter increments the fixed-window counter for key and returns the count
// within the current window. The first hit of a window returns 1.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter gates requests by (class, client identity) against fixed-window
// budgets. A rejected request has already been counted, so hammering a
// closed window never reopens it early.
type Limiter struct {
	limits  map[Class]Limit
	counter Counter
}

// New creates a Limiter over the given counter backend. Classes missing
// from limits are unlimited.
func New(counter Counter, limits map[Class]Limit) *Limiter {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Limiter{limits: limits, counter: counter}
}

// Allow counts one request for (class, clientID) and reports whether it is
// within budget. Returns [ErrLimited] on rejection and wraps
// [ErrUnavailable] on backend failure.
func (l *Limiter) Allow(ctx context.Context, class Class, clientID string) error {
	limit, ok := l.limits[class]
	if !ok {
		return nil
	}

	count, err := l.counter.Incr(ctx, string(class)+":"+clientID, limit.Window)
	if err != nil {
		return err
	}
	if count > int64(limit.Max) {
		return ErrLimited
	}
	return nil
}

// WindowFor exposes a class's configured window, used by HTTP boundaries to
// fill Retry-After.
func (l *Limiter) WindowFor(class Class) (Limit, bool) {
	limit, ok := l.limits[class]
	return limit, ok
}
