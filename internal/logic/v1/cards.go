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

// CardService manages cards inside collections owned by the caller.
type CardService struct {
	cards       domain.CardRepository
	collections *CollectionService
}

func NewCardService(cards domain.CardRepository, collections *CollectionService) *CardService {
	return &CardService{cards: cards, collections: collections}
}

func (s *CardService) List(ctx context.Context, owner string, collectionID int64) ([]domain.Card, error) {
	ctx, span := middleware.StartSpan(ctx, "cards.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("collection.id", collectionID),
	))
	defer span.End()

	if _, err := s.collections.Owned(ctx, owner, collectionID); err != nil {
		return nil, err
	}
	list, err := s.cards.ListByCollection(ctx, collectionID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list cards of collection %d: %w", collectionID, err)
	}
	return list, nil
}

// Create adds c to the collection. Any id set on c is ignored.
func (s *CardService) Create(ctx context.Context, owner string, collectionID int64, c domain.Card) (*domain.Card, error) {
	ctx, span := middleware.StartSpan(ctx, "cards.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("collection.id", collectionID),
	))
	defer span.End()

	if _, err := s.collections.Owned(ctx, owner, collectionID); err != nil {
		return nil, err
	}
	if err := validateCard(c); err != nil {
		return nil, err
	}
	c.ID = 0
	c.CollectionID = collectionID

	created, err := s.cards.Create(ctx, c)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create card: %w", ErrCollectionNotFound)
	}
	if errors.Is(err, domain.ErrValueTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create card: %w", err)
	}
	return created, nil
}

// Update replaces card c.ID, which must already belong to the collection.
func (s *CardService) Update(ctx context.Context, owner string, collectionID int64, c domain.Card) (*domain.Card, error) {
	ctx, span := middleware.StartSpan(ctx, "cards.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("collection.id", collectionID),
		attribute.Int64("card.id", c.ID),
	))
	defer span.End()

	if _, err := s.collections.Owned(ctx, owner, collectionID); err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, fmt.Errorf("%w: id of the card to update is required", ErrInvalidCard)
	}
	if err := validateCard(c); err != nil {
		return nil, err
	}
	if _, err := s.cardIn(ctx, collectionID, c.ID); err != nil {
		return nil, err
	}
	c.CollectionID = collectionID

	updated, err := s.cards.Update(ctx, c)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("update card %d: %w", c.ID, ErrCardNotFound)
	}
	if errors.Is(err, domain.ErrValueTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update card %d: %w", c.ID, err)
	}
	return updated, nil
}

func (s *CardService) Delete(ctx context.Context, owner string, collectionID, cardID int64) error {
	ctx, span := middleware.StartSpan(ctx, "cards.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("collection.id", collectionID),
		attribute.Int64("card.id", cardID),
	))
	defer span.End()

	if _, err := s.collections.Owned(ctx, owner, collectionID); err != nil {
		return err
	}
	if _, err := s.cardIn(ctx, collectionID, cardID); err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, cardID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return fmt.Errorf("delete card %d: %w", cardID, err)
	}
	return nil
}

func (s *CardService) cardIn(ctx context.Context, collectionID, cardID int64) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("card %d: %w", cardID, ErrCardNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("card %d: %w", cardID, err)
	}
	if card.CollectionID != collectionID {
		return nil, fmt.Errorf("card %d in collection %d: %w", cardID, collectionID, ErrCardCollectionMismatch)
	}
	return card, nil
}

func validateCard(c domain.Card) error {
	switch {
	case strings.TrimSpace(c.FrontTitle) == "":
		return fmt.Errorf("%w: front_title must not be blank", ErrInvalidCard)
	case strings.TrimSpace(c.BackTitle) == "":
		return fmt.Errorf("%w: back_title must not be blank", ErrInvalidCard)
	case utf8.RuneCountInString(c.FrontTitle) > domain.MaxCardTitleLength:
		return fmt.Errorf("%w: front_title must not exceed %d characters", ErrInvalidCard, domain.MaxCardTitleLength)
	case utf8.RuneCountInString(c.BackTitle) > domain.MaxCardTitleLength:
		return fmt.Errorf("%w: back_title must not exceed %d characters", ErrInvalidCard, domain.MaxCardTitleLength)
	case c.CurrentIntervalMs < 0:
		return fmt.Errorf("%w: current_interval_ms must not be negative", ErrInvalidCard)
	case c.NextTimeAt.IsZero():
		return fmt.Errorf("%w: next_time_at is required", ErrInvalidCard)
	}
	return nil
}
