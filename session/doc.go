// Package session owns authenticated client contexts: opaque random
// session IDs, idle-timeout expiry, and IP/user-agent binding.
//
// # Fail-closed validation
//
// A session is valid only while the idle timeout has not elapsed AND the
// presenting client's IP and user-agent hashes match the bound values. Any
// mismatch deletes the session during validation — a hijacked or stale
// session can never be observed as "valid but suspicious".
//
// # Stores
//
//   - [MemoryStore] — bounded in-process map with lazy expiry plus a
//     periodic sweep. Single-instance / sticky-session deployments.
//   - [RedisStore] — sliding-TTL Redis store for multi-instance
//     deployments, behind the same [Store] contract.
//
// # What this package must NOT do
//
//   - Store raw IP or user-agent strings (hashes only).
//   - Decide authorization — it reports who the session belongs to, not
//     what they may do.
//   - Import any other reqguard package.
package session
