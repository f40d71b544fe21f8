package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/duynhne/flashcards-service/internal/core/domain"
)

var _ domain.SessionStore = (*BadgerSessionStore)(nil)

const sessionKeyPrefix = "session:"

// BadgerSessionStore persists sessions in an embedded BadgerDB. When a
// lifetime is configured entries carry a TTL and Badger hides them once it
// passes (second granularity).
type BadgerSessionStore struct {
	db       *badger.DB
	lifetime *time.Duration
}

// OpenBadger opens (or creates) a Badger database in dir with logging
// disabled.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for sessions: %w", err)
	}
	return db, nil
}

// NewBadgerSessionStore wraps an open database. The caller closes db.
func NewBadgerSessionStore(db *badger.DB, lifetime *time.Duration) *BadgerSessionStore {
	return &BadgerSessionStore{db: db, lifetime: lifetime}
}

func (s *BadgerSessionStore) Write(_ context.Context, id string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(sessionKeyPrefix+id), value)
		if s.lifetime != nil {
			e = e.WithTTL(*s.lifetime)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *BadgerSessionStore) Read(_ context.Context, id string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return value, nil
}

func (s *BadgerSessionStore) Invalidate(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(sessionKeyPrefix + id))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

func (s *BadgerSessionStore) InvalidateAll(context.Context) error {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return fmt.Errorf("invalidate all sessions: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("invalidate all sessions: %w", err)
	}
	return nil
}
