package store

import (
	"context"
	"sync"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// MemoryStore implements Store in process memory. Documents are kept
// encoded so callers never share slices with the store.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string][]byte
	document string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(document string) *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string][]byte),
		document: document,
	}
}

// Close is a no-op.
func (*MemoryStore) Close() error { return nil }

// Ping always succeeds.
func (*MemoryStore) Ping(_ context.Context) error { return nil }

// Migrate is a no-op.
func (*MemoryStore) Migrate(_ context.Context) error { return nil }

// GetSeenSet implements Store.
func (s *MemoryStore) GetSeenSet(_ context.Context) (*domain.SeenSet, error) {
	s.mu.Lock()
	body := s.docs[s.document]
	s.mu.Unlock()
	return decodeSeenSet(body)
}

// PutSeenSet implements Store.
func (s *MemoryStore) PutSeenSet(_ context.Context, set *domain.SeenSet) error {
	body, err := encodeSeenSet(set)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[s.document] = body
	s.mu.Unlock()
	return nil
}
