package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/flashcards-service/config"
	"github.com/duynhne/flashcards-service/internal/core/domain"
)

func TestOpenStorage_MemoryDriver(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Database: config.Database{Driver: "MEMORY", DSN: "postgres://unreachable:1/none"}}

	db, err := openStorage(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.Nil(t, db.pool)
	assert.NoError(t, db.Ping(ctx))

	require.NoError(t, db.users.Create(ctx, domain.User{Username: "alice", HashedPassword: "h", Salt: "s"}))
	user, err := db.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	created, err := db.collections.Create(ctx, domain.CardCollection{OwnerUsername: "alice", Title: "Words"})
	require.NoError(t, err)
	require.NoError(t, db.users.Delete(ctx, "alice"))
	_, err = db.collections.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpenSessionStore_MemoryWithoutPool(t *testing.T) {
	cfg := &config.Config{Session: config.Session{Store: config.SessionStoreMemory}}

	store, closer, err := openSessionStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, closer.Close())
}
