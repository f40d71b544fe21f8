package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/flashcards-service/internal/core/domain"
)

var _ domain.UserRepository = (*PgxUserRepository)(nil)

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

// Create inserts a new user. The primary key on username makes concurrent
// registrations of the same name fail with domain.ErrAlreadyExists.
func (r *PgxUserRepository) Create(ctx context.Context, user domain.User) error {
	query := `INSERT INTO users (username, hashed_password, salt) VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, query, user.Username, user.HashedPassword, user.Salt); err != nil {
		return fmt.Errorf("insert user %q: %w", user.Username, mapPgError(err))
	}
	return nil
}

// GetByUsername returns the user matching the given username.
func (r *PgxUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT username, hashed_password, salt FROM users WHERE username = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, username).Scan(&u.Username, &u.HashedPassword, &u.Salt)
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, mapPgError(err))
	}
	return &u, nil
}

// Delete removes the user. Collections and cards go with it through
// ON DELETE CASCADE.
func (r *PgxUserRepository) Delete(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete user %q: %w", username, domain.ErrNotFound)
	}
	return nil
}
