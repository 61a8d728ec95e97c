// Package store defines the persistence contracts the security core
// depends on and two interchangeable backends.
//
// # Design
//
// DocumentStore is the raw contract: id-keyed CRUD plus query-by-equality
// on a schemaless collection. MemoryStore serves tests and single-instance
// deployments; PostgresStore keeps each collection in a JSONB table.
// Users adapts any DocumentStore into the typed UserStore the engine
// consumes, carrying profiles as JSON documents.
//
// # Architecture boundaries
//
// This package owns persistence only. It does NOT hash passwords, decide
// lockout, or validate input — the engine drives all account semantics
// and this package merely keeps whatever it is handed.
//
// # What this package must NOT do
//
//   - Import the root package or any sibling package.
//   - Store raw credential material of any kind.
//   - Retry on backend failure; it reports ErrUnavailable and stops.
package store
