package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no document exists under the given id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a create collides with an existing
	// document or unique field.
	ErrDuplicate = errors.New("document already exists")
	// ErrUnavailable indicates the backing store is unreachable. Callers
	// surface it as an infrastructure failure and do not retry here.
	ErrUnavailable = errors.New("document store unavailable")
)

// Document is a schemaless record as stored in a collection.
type Document = map[string]any

// DocumentStore is the persistence contract this core requires: id-keyed
// CRUD plus equality queries on a single field. Implementations must be
// safe for concurrent use.
type DocumentStore interface {
	// Get returns the document stored under id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set stores doc under id, replacing any existing document.
	Set(ctx context.Context, collection, id string, doc Document) error
	// Update merges fields into the document under id. Missing documents
	// fail with ErrNotFound; no upsert.
	Update(ctx context.Context, collection, id string, fields Document) error
	// FindOne returns the first document whose field equals value, with
	// its id, or ErrNotFound.
	FindOne(ctx context.Context, collection, field string, value any) (string, Document, error)
	// Close releases backend resources.
	Close() error
}

// UserStore is the typed account-record contract consumed by the engine.
type UserStore interface {
	Create(ctx context.Context, profile *UserProfile) error
	GetByID(ctx context.Context, id string) (*UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*UserProfile, error)
	// Save rewrites the whole profile. The lockout counter is a
	// read-then-write; concurrent failures for one account may
	// under-count, which weakens but never breaks the lockout bound.
	Save(ctx context.Context, profile *UserProfile) error
}
