package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/flashcards-service/internal/core/domain"
)

var _ domain.SessionStore = (*PgxSessionStore)(nil)

// PgxSessionStore implements domain.SessionStore on the sessions table.
// Rows past expires_at read as not found and are removed by PurgeExpired.
type PgxSessionStore struct {
	pool     *pgxpool.Pool
	lifetime *time.Duration
	now      func() time.Time
}

// NewSessionStore creates a PgxSessionStore. A nil lifetime keeps sessions
// until they are invalidated.
func NewSessionStore(pool *pgxpool.Pool, lifetime *time.Duration) *PgxSessionStore {
	return &PgxSessionStore{pool: pool, lifetime: lifetime, now: time.Now}
}

func (s *PgxSessionStore) Write(ctx context.Context, id string, value []byte) error {
	var expiresAt *time.Time
	if s.lifetime != nil {
		t := s.now().Add(*s.lifetime).UTC()
		expiresAt = &t
	}

	query := `
		INSERT INTO sessions (id, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`
	if _, err := s.pool.Exec(ctx, query, id, string(value), expiresAt); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *PgxSessionStore) Read(ctx context.Context, id string) ([]byte, error) {
	query := `SELECT value FROM sessions WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)`

	var value string
	if err := s.pool.QueryRow(ctx, query, id, s.now().UTC()).Scan(&value); err != nil {
		return nil, fmt.Errorf("read session: %w", mapPgError(err))
	}
	return []byte(value), nil
}

func (s *PgxSessionStore) Invalidate(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

func (s *PgxSessionStore) InvalidateAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("invalidate all sessions: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (s *PgxSessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
