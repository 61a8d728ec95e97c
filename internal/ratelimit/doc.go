// Package ratelimit provides fixed-window request throttling keyed by
// (operation class, client identity).
//
// # Semantics
//
// Each class has an independent budget: auth 5/15min, api 100/min,
// upload 10/min, admin 50/min by default. A counter resets to 1 when its
// window lapses and increments otherwise; requests beyond the budget fail
// with [ErrLimited]. Rejections are counted too.
//
// # Backends
//
//   - [MemoryCounter] — bounded LRU for single-instance deployments.
//   - [RedisCounter] — INCR+EXPIRE shared counters for multi-instance
//     deployments.
//
// # What this package must NOT do
//
//   - Decide HTTP status codes or response bodies — that is middleware's
//     job.
//   - Import any reqguard package outside internal/.
package ratelimit
