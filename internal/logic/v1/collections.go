package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/flashcards-service/internal/core/domain"
	"github.com/duynhne/flashcards-service/middleware"
)

// CollectionService manages a user's card collections.
type CollectionService struct {
	collections domain.CollectionRepository
}

func NewCollectionService(collections domain.CollectionRepository) *CollectionService {
	return &CollectionService{collections: collections}
}

func (s *CollectionService) List(ctx context.Context, owner string) ([]domain.CardCollection, error) {
	ctx, span := middleware.StartSpan(ctx, "collections.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	list, err := s.collections.ListByOwner(ctx, owner)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list collections of %q: %w", owner, err)
	}
	return list, nil
}

// Create stores c for owner. Any id or owner set on c is ignored.
func (s *CollectionService) Create(ctx context.Context, owner string, c domain.CardCollection) (*domain.CardCollection, error) {
	ctx, span := middleware.StartSpan(ctx, "collections.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := validateCollection(c); err != nil {
		return nil, err
	}
	c.ID = 0
	c.OwnerUsername = owner

	created, err := s.collections.Create(ctx, c)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create collection for %q: %w", owner, ErrUserNotFound)
	}
	if errors.Is(err, domain.ErrValueTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return created, nil
}

// Update replaces the collection c.ID, which must belong to owner.
func (s *CollectionService) Update(ctx context.Context, owner string, c domain.CardCollection) (*domain.CardCollection, error) {
	ctx, span := middleware.StartSpan(ctx, "collections.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("collection.id", c.ID),
	))
	defer span.End()

	if err := validateCollection(c); err != nil {
		return nil, err
	}
	if _, err := s.Owned(ctx, owner, c.ID); err != nil {
		return nil, err
	}
	c.OwnerUsername = owner

	updated, err := s.collections.Update(ctx, c)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("update collection %d: %w", c.ID, ErrCollectionNotFound)
	}
	if errors.Is(err, domain.ErrValueTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update collection %d: %w", c.ID, err)
	}
	return updated, nil
}

// Delete removes the collection and its cards.
func (s *CollectionService) Delete(ctx context.Context, owner string, id int64) error {
	ctx, span := middleware.StartSpan(ctx, "collections.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("collection.id", id),
	))
	defer span.End()

	if _, err := s.Owned(ctx, owner, id); err != nil {
		return err
	}
	if err := s.collections.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return fmt.Errorf("delete collection %d: %w", id, err)
	}
	return nil
}

// Owned returns the collection id if it exists and belongs to owner.
func (s *CollectionService) Owned(ctx context.Context, owner string, id int64) (*domain.CardCollection, error) {
	c, err := s.collections.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("collection %d: %w", id, ErrCollectionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("collection %d: %w", id, err)
	}
	if c.OwnerUsername != owner {
		return nil, fmt.Errorf("collection %d: %w", id, ErrForbidden)
	}
	return c, nil
}

func validateCollection(c domain.CardCollection) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title must not be blank", ErrInvalidCollection)
	}
	if utf8.RuneCountInString(c.Title) > domain.MaxCollectionTitleLength {
		return fmt.Errorf("%w: title must not exceed %d characters", ErrInvalidCollection, domain.MaxCollectionTitleLength)
	}
	if !c.SubjectType.Valid() {
		return fmt.Errorf("%w: unknown subject_type %q", ErrInvalidCollection, c.SubjectType)
	}
	for name, lang := range map[string]*string{"subject_language": c.SubjectLanguage, "native_language": c.NativeLanguage} {
		if lang == nil {
			if c.SubjectType == domain.SubjectForeignLanguage {
				return fmt.Errorf("%w: %s is required for %s", ErrInvalidCollection, name, domain.SubjectForeignLanguage)
			}
			continue
		}
		if !isLanguageCode(*lang) {
			return fmt.Errorf("%w: %s must be a two-letter code", ErrInvalidCollection, name)
		}
	}
	return nil
}

func isLanguageCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
