package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/flashcards-service/internal/core/domain"
)

var _ domain.CollectionRepository = (*PgxCollectionRepository)(nil)

const collectionColumns = `id, title, description, subject_type, subject_language, native_language, owner_username`

// PgxCollectionRepository implements domain.CollectionRepository using pgxpool.
type PgxCollectionRepository struct {
	pool *pgxpool.Pool
}

func NewCollectionRepository(pool *pgxpool.Pool) *PgxCollectionRepository {
	return &PgxCollectionRepository{pool: pool}
}

func scanCollection(row pgx.Row) (*domain.CardCollection, error) {
	var c domain.CardCollection
	var subject string
	err := row.Scan(&c.ID, &c.Title, &c.Description, &subject, &c.SubjectLanguage, &c.NativeLanguage, &c.OwnerUsername)
	if err != nil {
		return nil, err
	}
	c.SubjectType = domain.SubjectType(subject)
	return &c, nil
}

func (r *PgxCollectionRepository) Create(ctx context.Context, c domain.CardCollection) (*domain.CardCollection, error) {
	query := `
		INSERT INTO collections (title, description, subject_type, subject_language, native_language, owner_username)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + collectionColumns

	created, err := scanCollection(r.pool.QueryRow(ctx, query,
		c.Title, c.Description, string(c.SubjectType), c.SubjectLanguage, c.NativeLanguage, c.OwnerUsername,
	))
	if err != nil {
		return nil, fmt.Errorf("insert collection: %w", mapPgError(err))
	}
	return created, nil
}

func (r *PgxCollectionRepository) GetByID(ctx context.Context, id int64) (*domain.CardCollection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`

	c, err := scanCollection(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("select collection %d: %w", id, mapPgError(err))
	}
	return c, nil
}

func (r *PgxCollectionRepository) ListByOwner(ctx context.Context, owner string) ([]domain.CardCollection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE owner_username = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	out := []domain.CardCollection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return out, nil
}

func (r *PgxCollectionRepository) Update(ctx context.Context, c domain.CardCollection) (*domain.CardCollection, error) {
	query := `
		UPDATE collections
		SET title = $2, description = $3, subject_type = $4, subject_language = $5, native_language = $6
		WHERE id = $1
		RETURNING ` + collectionColumns

	updated, err := scanCollection(r.pool.QueryRow(ctx, query,
		c.ID, c.Title, c.Description, string(c.SubjectType), c.SubjectLanguage, c.NativeLanguage,
	))
	if err != nil {
		return nil, fmt.Errorf("update collection %d: %w", c.ID, mapPgError(err))
	}
	return updated, nil
}

func (r *PgxCollectionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete collection %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete collection %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
