package domain

import "context"

// SubjectType classifies what a collection is for.
type SubjectType string

const (
	SubjectForeignLanguage SubjectType = "FOREIGN_LANGUAGE"
	SubjectOther           SubjectType = "OTHER"
)

// Valid reports whether t is a known subject type.
func (t SubjectType) Valid() bool {
	return t == SubjectForeignLanguage || t == SubjectOther
}

// MaxCollectionTitleLength is the width of collections.title, in characters.
const MaxCollectionTitleLength = 128

// CardCollection groups cards owned by a single user. SubjectLanguage and
// NativeLanguage are set when SubjectType is FOREIGN_LANGUAGE.
type CardCollection struct {
	ID              int64
	Title           string
	Description     *string
	SubjectType     SubjectType
	SubjectLanguage *string
	NativeLanguage  *string
	OwnerUsername   string
}

// CollectionRepository defines the data-access contract for collections.
type CollectionRepository interface {
	// Create inserts c, ignoring c.ID, and returns the stored collection.
	Create(ctx context.Context, c CardCollection) (*CardCollection, error)

	// GetByID returns ErrNotFound when no collection has the id.
	GetByID(ctx context.Context, id int64) (*CardCollection, error)

	ListByOwner(ctx context.Context, owner string) ([]CardCollection, error)

	// Update overwrites every field except the owner.
	// Returns ErrNotFound when no collection has c.ID.
	Update(ctx context.Context, c CardCollection) (*CardCollection, error)

	// Delete removes the collection and its cards.
	Delete(ctx context.Context, id int64) error
}
