package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process DocumentStore for tests and single-instance
// deployments. FindOne scans the collection linearly, which is fine at the
// scales this store is meant for.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore returns an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]Document)
		s.collections[collection] = coll
	}
	coll[id] = cloneDocument(doc)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = cloneValue(v)
	}
	return nil
}

func (s *MemoryStore) FindOne(_ context.Context, collection, field string, value any) (string, Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, doc := range s.collections[collection] {
		if doc[field] == value {
			return id, cloneDocument(doc), nil
		}
	}
	return "", nil, ErrNotFound
}

func (s *MemoryStore) Close() error { return nil }

// cloneDocument deep-copies map and slice values so callers never share
// mutable state with the store.
func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Document:
		return cloneDocument(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
