package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/flashcards-service/internal/core/repository"
	"github.com/duynhne/flashcards-service/internal/security/keygen"
)

func TestSessionManager(t *testing.T) {
	ctx := context.Background()
	store, err := repository.NewBigCacheSessionStore(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m := NewSessionManager(store, keygen.New())

	id, err := m.Create(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, id, SessionIDLength)

	raw, err := store.Read(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice"}`, string(raw))

	s, err := m.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", s.Username)

	_, err = m.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Resolve(ctx, "unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Write(ctx, "corrupt", []byte("not json")))
	_, err = m.Resolve(ctx, "corrupt")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.InvalidateAll(ctx))
	_, err = m.Resolve(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
