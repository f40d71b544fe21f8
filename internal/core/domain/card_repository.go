package domain

import (
	"context"
	"time"
)

// MaxCardTitleLength is the width of the front and back title columns, in
// characters.
const MaxCardTitleLength = 256

// Card is a single flash card. NextTimeAt and CurrentIntervalMs are chosen
// by the client; the server only stores them.
type Card struct {
	ID                int64
	FrontTitle        string
	FrontDescription  *string
	FrontExample      *string
	BackTitle         string
	BackDescription   *string
	BackExample       *string
	NextTimeAt        time.Time
	CurrentIntervalMs int64
	CollectionID      int64
}

// CardRepository defines the data-access contract for cards.
type CardRepository interface {
	// Create inserts c, ignoring c.ID, and returns the stored card.
	// Returns ErrNotFound when the collection does not exist.
	Create(ctx context.Context, c Card) (*Card, error)

	// GetByID returns ErrNotFound when no card has the id.
	GetByID(ctx context.Context, id int64) (*Card, error)

	ListByCollection(ctx context.Context, collectionID int64) ([]Card, error)

	// Update overwrites the card with id c.ID.
	// Returns ErrNotFound when no card has c.ID.
	Update(ctx context.Context, c Card) (*Card, error)

	Delete(ctx context.Context, id int64) error
}
