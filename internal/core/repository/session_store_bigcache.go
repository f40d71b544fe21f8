package repository

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/duynhne/flashcards-service/internal/core/domain"
)

var _ domain.SessionStore = (*BigCacheSessionStore)(nil)

// unboundedLifeWindow stands in for "never expires"; bigcache needs a
// finite window.
const unboundedLifeWindow = 100 * 365 * 24 * time.Hour

// BigCacheSessionStore keeps sessions in process memory.
//
// Each value is prefixed with its expiry in unix nanoseconds (zero when
// unbounded). bigcache evicts in the background at second granularity, so
// Read also checks the prefix.
type BigCacheSessionStore struct {
	cache    *bigcache.BigCache
	lifetime *time.Duration
	now      func() time.Time
}

// NewBigCacheSessionStore creates an in-memory store. A nil lifetime keeps
// sessions until they are invalidated.
func NewBigCacheSessionStore(ctx context.Context, lifetime *time.Duration) (*BigCacheSessionStore, error) {
	cfg := bigcache.DefaultConfig(unboundedLifeWindow)
	cfg.CleanWindow = 0
	if lifetime != nil {
		cfg = bigcache.DefaultConfig(*lifetime)
		cfg.CleanWindow = time.Minute
	}
	cfg.Verbose = false

	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &BigCacheSessionStore{cache: cache, lifetime: lifetime, now: time.Now}, nil
}

func (s *BigCacheSessionStore) Write(_ context.Context, id string, value []byte) error {
	var expiresAt int64
	if s.lifetime != nil {
		expiresAt = s.now().Add(*s.lifetime).UnixNano()
	}

	entry := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(entry, uint64(expiresAt))
	copy(entry[8:], value)

	if err := s.cache.Set(id, entry); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *BigCacheSessionStore) Read(_ context.Context, id string) ([]byte, error) {
	entry, err := s.cache.Get(id)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(entry) < 8 {
		return nil, domain.ErrNotFound
	}

	expiresAt := int64(binary.BigEndian.Uint64(entry))
	if expiresAt != 0 && s.now().UnixNano() >= expiresAt {
		_ = s.cache.Delete(id)
		return nil, domain.ErrNotFound
	}

	value := make([]byte, len(entry)-8)
	copy(value, entry[8:])
	return value, nil
}

func (s *BigCacheSessionStore) Invalidate(_ context.Context, id string) error {
	err := s.cache.Delete(id)
	if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

func (s *BigCacheSessionStore) InvalidateAll(context.Context) error {
	if err := s.cache.Reset(); err != nil {
		return fmt.Errorf("invalidate all sessions: %w", err)
	}
	return nil
}

// Close stops the background cleaner.
func (s *BigCacheSessionStore) Close() error {
	return s.cache.Close()
}
