package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/flashcards-service/internal/core/domain"
)

var _ domain.CardRepository = (*PgxCardRepository)(nil)

const cardColumns = `id, front_title, front_description, front_example, back_title, back_description, back_example,
	next_time_at, current_interval_ms, collection_id`

// PgxCardRepository implements domain.CardRepository using pgxpool.
type PgxCardRepository struct {
	pool *pgxpool.Pool
}

func NewCardRepository(pool *pgxpool.Pool) *PgxCardRepository {
	return &PgxCardRepository{pool: pool}
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	var c domain.Card
	err := row.Scan(
		&c.ID, &c.FrontTitle, &c.FrontDescription, &c.FrontExample,
		&c.BackTitle, &c.BackDescription, &c.BackExample,
		&c.NextTimeAt, &c.CurrentIntervalMs, &c.CollectionID,
	)
	if err != nil {
		return nil, err
	}
	c.NextTimeAt = c.NextTimeAt.UTC()
	return &c, nil
}

// Create inserts a card. A missing collection surfaces as domain.ErrNotFound
// through the foreign key.
func (r *PgxCardRepository) Create(ctx context.Context, c domain.Card) (*domain.Card, error) {
	query := `
		INSERT INTO cards (front_title, front_description, front_example, back_title, back_description, back_example,
			next_time_at, current_interval_ms, collection_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + cardColumns

	created, err := scanCard(r.pool.QueryRow(ctx, query,
		c.FrontTitle, c.FrontDescription, c.FrontExample,
		c.BackTitle, c.BackDescription, c.BackExample,
		c.NextTimeAt.UTC(), c.CurrentIntervalMs, c.CollectionID,
	))
	if err != nil {
		return nil, fmt.Errorf("insert card: %w", mapPgError(err))
	}
	return created, nil
}

func (r *PgxCardRepository) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	c, err := scanCard(r.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("select card %d: %w", id, mapPgError(err))
	}
	return c, nil
}

func (r *PgxCardRepository) ListByCollection(ctx context.Context, collectionID int64) ([]domain.Card, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cardColumns+` FROM cards WHERE collection_id = $1 ORDER BY id`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	out := []domain.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return out, nil
}

func (r *PgxCardRepository) Update(ctx context.Context, c domain.Card) (*domain.Card, error) {
	query := `
		UPDATE cards
		SET front_title = $2, front_description = $3, front_example = $4,
			back_title = $5, back_description = $6, back_example = $7,
			next_time_at = $8, current_interval_ms = $9, collection_id = $10
		WHERE id = $1
		RETURNING ` + cardColumns

	updated, err := scanCard(r.pool.QueryRow(ctx, query,
		c.ID, c.FrontTitle, c.FrontDescription, c.FrontExample,
		c.BackTitle, c.BackDescription, c.BackExample,
		c.NextTimeAt.UTC(), c.CurrentIntervalMs, c.CollectionID,
	))
	if err != nil {
		return nil, fmt.Errorf("update card %d: %w", c.ID, mapPgError(err))
	}
	return updated, nil
}

func (r *PgxCardRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete card %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
