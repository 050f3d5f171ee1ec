// Package store defines the seen-set persistence abstraction for
// listing-notifier. Business logic depends on the Store interface only; the
// concrete drivers (PostgreSQL, SQLite, Badger, in-memory) all keep the
// seen-set as one named JSON document that is read whole and replaced whole.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// Store persists the seen-set document.
//
// There is no versioning or compare-and-swap: two passes that read the same
// document and write it back race, and the last write wins.
type Store interface {
	// GetSeenSet loads the whole seen-set. A missing document is an empty set.
	GetSeenSet(ctx context.Context) (*domain.SeenSet, error)
	// PutSeenSet replaces the whole seen-set.
	PutSeenSet(ctx context.Context, s *domain.SeenSet) error

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

func decodeSeenSet(body []byte) (*domain.SeenSet, error) {
	s := &domain.SeenSet{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, s); err != nil {
			return nil, fmt.Errorf("decoding seen-set document: %w", err)
		}
	}
	if s.Data == nil {
		s.Data = []string{}
	}
	return s, nil
}

func encodeSeenSet(s *domain.SeenSet) ([]byte, error) {
	doc := domain.SeenSet{Data: []string{}}
	if s != nil && s.Data != nil {
		doc.Data = s.Data
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding seen-set document: %w", err)
	}
	return body, nil
}
