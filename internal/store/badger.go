package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// BadgerStore implements Store on an embedded Badger key-value database. The
// document name is the key; the value is the JSON document.
type BadgerStore struct {
	db  *badger.DB
	key []byte
}

// NewBadgerStore opens (creating if needed) a Badger database in dir.
func NewBadgerStore(dir, document string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating badger directory: %w", err)
	}
	return OpenBadgerStore(badger.DefaultOptions(dir), document)
}

// OpenBadgerStore opens a Badger database with explicit options, e.g. an
// in-memory one for tests.
func OpenBadgerStore(opts badger.Options, document string) (*BadgerStore, error) {
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger database: %w", err)
	}
	return &BadgerStore{db: db, key: []byte(document)}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is still open.
func (s *BadgerStore) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

// Migrate is a no-op; Badger is schemaless.
func (*BadgerStore) Migrate(_ context.Context) error {
	return nil
}

// GetSeenSet implements Store.
func (s *BadgerStore) GetSeenSet(_ context.Context) (*domain.SeenSet, error) {
	var body []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return decodeSeenSet(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", s.key, err)
	}
	return decodeSeenSet(body)
}

// PutSeenSet implements Store.
func (s *BadgerStore) PutSeenSet(_ context.Context, set *domain.SeenSet) error {
	body, err := encodeSeenSet(set)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, body)
	}); err != nil {
		return fmt.Errorf("writing document %s: %w", s.key, err)
	}
	return nil
}
