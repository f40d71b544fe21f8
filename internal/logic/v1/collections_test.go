package v1

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/flashcards-service/internal/core/domain"
)

func ptr(s string) *string { return &s }

func registerUsers(t *testing.T, f *fixture, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := f.auth.Register(context.Background(), domain.Credentials{Username: n, Password: "pw"})
		require.NoError(t, err)
	}
}

func TestCollectionService_Validation(t *testing.T) {
	f := newFixture(t)
	registerUsers(t, f, "alice")
	ctx := context.Background()

	tests := []struct {
		name string
		c    domain.CardCollection
		ok   bool
	}{
		{"other subject", domain.CardCollection{Title: "Math", SubjectType: domain.SubjectOther}, true},
		{"foreign language", domain.CardCollection{Title: "German", SubjectType: domain.SubjectForeignLanguage, SubjectLanguage: ptr("de"), NativeLanguage: ptr("en")}, true},
		{"blank title", domain.CardCollection{Title: " ", SubjectType: domain.SubjectOther}, false},
		{"title at width", domain.CardCollection{Title: strings.Repeat("ß", domain.MaxCollectionTitleLength), SubjectType: domain.SubjectOther}, true},
		{"title too long", domain.CardCollection{Title: strings.Repeat("t", domain.MaxCollectionTitleLength+1), SubjectType: domain.SubjectOther}, false},
		{"unknown subject", domain.CardCollection{Title: "x", SubjectType: "MUSIC"}, false},
		{"missing native language", domain.CardCollection{Title: "x", SubjectType: domain.SubjectForeignLanguage, SubjectLanguage: ptr("de")}, false},
		{"bad language code", domain.CardCollection{Title: "x", SubjectType: domain.SubjectForeignLanguage, SubjectLanguage: ptr("deu"), NativeLanguage: ptr("en")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := f.collections.Create(ctx, "alice", tt.c)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, "alice", created.OwnerUsername)
				assert.NotZero(t, created.ID)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidCollection)
		})
	}
}

func TestCollectionService_Ownership(t *testing.T) {
	f := newFixture(t)
	registerUsers(t, f, "alice", "mallory")
	ctx := context.Background()

	c, err := f.collections.Create(ctx, "alice", domain.CardCollection{Title: "Mine", SubjectType: domain.SubjectOther})
	require.NoError(t, err)

	_, err = f.collections.Update(ctx, "mallory", domain.CardCollection{ID: c.ID, Title: "Stolen", SubjectType: domain.SubjectOther})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.collections.Delete(ctx, "mallory", c.ID), ErrForbidden)

	_, err = f.collections.Update(ctx, "alice", domain.CardCollection{ID: 9999, Title: "x", SubjectType: domain.SubjectOther})
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	updated, err := f.collections.Update(ctx, "alice", domain.CardCollection{ID: c.ID, Title: "Renamed", SubjectType: domain.SubjectOther})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	list, err := f.collections.List(ctx, "mallory")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.collections.Delete(ctx, "alice", c.ID))
	assert.ErrorIs(t, f.collections.Delete(ctx, "alice", c.ID), ErrCollectionNotFound)
}

func TestCardService(t *testing.T) {
	f := newFixture(t)
	registerUsers(t, f, "alice", "mallory")
	ctx := context.Background()

	a, err := f.collections.Create(ctx, "alice", domain.CardCollection{Title: "A", SubjectType: domain.SubjectOther})
	require.NoError(t, err)
	b, err := f.collections.Create(ctx, "alice", domain.CardCollection{Title: "B", SubjectType: domain.SubjectOther})
	require.NoError(t, err)

	next := time.Now().Add(24 * time.Hour)
	card, err := f.cards.Create(ctx, "alice", a.ID, domain.Card{FrontTitle: "Hund", BackTitle: "dog", NextTimeAt: next, CurrentIntervalMs: 86400000})
	require.NoError(t, err)
	assert.Equal(t, a.ID, card.CollectionID)

	_, err = f.cards.Create(ctx, "alice", a.ID, domain.Card{FrontTitle: "", BackTitle: "x", NextTimeAt: next})
	assert.ErrorIs(t, err, ErrInvalidCard)

	long := strings.Repeat("w", domain.MaxCardTitleLength+1)
	_, err = f.cards.Create(ctx, "alice", a.ID, domain.Card{FrontTitle: long, BackTitle: "x", NextTimeAt: next})
	assert.ErrorIs(t, err, ErrInvalidCard)
	_, err = f.cards.Create(ctx, "alice", a.ID, domain.Card{FrontTitle: "x", BackTitle: long, NextTimeAt: next})
	assert.ErrorIs(t, err, ErrInvalidCard)

	_, err = f.cards.Create(ctx, "mallory", a.ID, domain.Card{FrontTitle: "f", BackTitle: "b", NextTimeAt: next})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.cards.List(ctx, "alice", 424242)
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	t.Run("update requires id", func(t *testing.T) {
		_, err := f.cards.Update(ctx, "alice", a.ID, domain.Card{FrontTitle: "f", BackTitle: "b", NextTimeAt: next})
		assert.ErrorIs(t, err, ErrInvalidCard)
	})

	t.Run("update missing card", func(t *testing.T) {
		_, err := f.cards.Update(ctx, "alice", a.ID, domain.Card{ID: 9999, FrontTitle: "f", BackTitle: "b", NextTimeAt: next})
		assert.ErrorIs(t, err, ErrCardNotFound)
	})

	t.Run("card from another collection", func(t *testing.T) {
		moved := *card
		_, err := f.cards.Update(ctx, "alice", b.ID, moved)
		assert.ErrorIs(t, err, ErrCardCollectionMismatch)
		assert.ErrorIs(t, f.cards.Delete(ctx, "alice", b.ID, card.ID), ErrCardCollectionMismatch)
	})

	t.Run("update schedule", func(t *testing.T) {
		c := *card
		c.CurrentIntervalMs = 2 * 86400000
		c.NextTimeAt = next.Add(48 * time.Hour)
		updated, err := f.cards.Update(ctx, "alice", a.ID, c)
		require.NoError(t, err)
		assert.Equal(t, int64(2*86400000), updated.CurrentIntervalMs)
	})

	list, err := f.cards.List(ctx, "alice", a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.cards.Delete(ctx, "alice", a.ID, card.ID))
	assert.ErrorIs(t, f.cards.Delete(ctx, "alice", a.ID, card.ID), ErrCardNotFound)
}

// narrowCollections rejects every write the way Postgres rejects an
// over-wide value.
type narrowCollections struct{ domain.CollectionRepository }

func (narrowCollections) Create(context.Context, domain.CardCollection) (*domain.CardCollection, error) {
	return nil, fmt.Errorf("insert collection: %w", domain.ErrValueTooLong)
}

type narrowCards struct{ domain.CardRepository }

func (narrowCards) Create(context.Context, domain.Card) (*domain.Card, error) {
	return nil, fmt.Errorf("insert card: %w", domain.ErrValueTooLong)
}

func TestStorageWidthErrorsAreValidationErrors(t *testing.T) {
	f := newFixture(t)
	registerUsers(t, f, "alice")
	ctx := context.Background()

	a, err := f.collections.Create(ctx, "alice", domain.CardCollection{Title: "A", SubjectType: domain.SubjectOther})
	require.NoError(t, err)

	cards := NewCardService(narrowCards{f.mem.Cards()}, f.collections)
	_, err = cards.Create(ctx, "alice", a.ID, domain.Card{FrontTitle: "f", BackTitle: "b", NextTimeAt: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidCard)

	collections := NewCollectionService(narrowCollections{f.mem.Collections()})
	_, err = collections.Create(ctx, "alice", domain.CardCollection{Title: "B", SubjectType: domain.SubjectOther})
	assert.ErrorIs(t, err, ErrInvalidCollection)
}
