package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/duynhne/flashcards-service/config"
	database "github.com/duynhne/flashcards-service/internal/core"
	"github.com/duynhne/flashcards-service/internal/core/domain"
	"github.com/duynhne/flashcards-service/internal/core/repository"
)

// storage is the repository set selected by DATABASE_DRIVER.
type storage struct {
	users       domain.UserRepository
	collections domain.CollectionRepository
	cards       domain.CardRepository

	// pool is nil with the memory driver.
	pool *pgxpool.Pool
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if strings.EqualFold(cfg.Database.Driver, config.DatabaseDriverMemory) {
		mem := repository.NewMemory()
		log.Warn().Msg("In-memory storage selected, data is lost on restart")
		return &storage{
			users:       mem.Users(),
			collections: mem.Collections(),
			cards:       mem.Cards(),
		}, nil
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info().Msg("Database connection pool established")
	return &storage{
		users:       repository.NewUserRepository(pool),
		collections: repository.NewCollectionRepository(pool),
		cards:       repository.NewCardRepository(pool),
		pool:        pool,
	}, nil
}

// Ping reports database reachability. The memory driver is always ready.
func (s *storage) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

func (s *storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
