package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/duynhne/flashcards-service/internal/core/domain"
)

// Memory holds users, collections and cards in process memory behind one
// lock, so cascading deletes and uniqueness checks are atomic. It backs
// tests and database-less local runs.
type Memory struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	collections map[int64]domain.CardCollection
	cards       map[int64]domain.Card
	lastID      int64
}

func NewMemory() *Memory {
	return &Memory{
		users:       make(map[string]domain.User),
		collections: make(map[int64]domain.CardCollection),
		cards:       make(map[int64]domain.Card),
	}
}

func (m *Memory) Users() *MemoryUserRepository             { return &MemoryUserRepository{m} }
func (m *Memory) Collections() *MemoryCollectionRepository { return &MemoryCollectionRepository{m} }
func (m *Memory) Cards() *MemoryCardRepository             { return &MemoryCardRepository{m} }

// nextID must be called with mu held.
func (m *Memory) nextID() int64 {
	m.lastID++
	return m.lastID
}

// deleteCollectionLocked must be called with mu held.
func (m *Memory) deleteCollectionLocked(id int64) {
	delete(m.collections, id)
	for cardID, c := range m.cards {
		if c.CollectionID == id {
			delete(m.cards, cardID)
		}
	}
}

var _ domain.UserRepository = (*MemoryUserRepository)(nil)

type MemoryUserRepository struct{ m *Memory }

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[user.Username]; ok {
		return fmt.Errorf("insert user %q: %w", user.Username, domain.ErrAlreadyExists)
	}
	r.m.users[user.Username] = user
	return nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[username]
	if !ok {
		return nil, fmt.Errorf("select user %q: %w", username, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, username string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[username]; !ok {
		return fmt.Errorf("delete user %q: %w", username, domain.ErrNotFound)
	}
	delete(r.m.users, username)
	for id, c := range r.m.collections {
		if c.OwnerUsername == username {
			r.m.deleteCollectionLocked(id)
		}
	}
	return nil
}

var _ domain.CollectionRepository = (*MemoryCollectionRepository)(nil)

type MemoryCollectionRepository struct{ m *Memory }

func (r *MemoryCollectionRepository) Create(_ context.Context, c domain.CardCollection) (*domain.CardCollection, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[c.OwnerUsername]; !ok {
		return nil, fmt.Errorf("insert collection: owner %q: %w", c.OwnerUsername, domain.ErrNotFound)
	}
	c.ID = r.m.nextID()
	r.m.collections[c.ID] = c
	return &c, nil
}

func (r *MemoryCollectionRepository) GetByID(_ context.Context, id int64) (*domain.CardCollection, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	c, ok := r.m.collections[id]
	if !ok {
		return nil, fmt.Errorf("select collection %d: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *MemoryCollectionRepository) ListByOwner(_ context.Context, owner string) ([]domain.CardCollection, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := []domain.CardCollection{}
	for _, c := range r.m.collections {
		if c.OwnerUsername == owner {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryCollectionRepository) Update(_ context.Context, c domain.CardCollection) (*domain.CardCollection, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.collections[c.ID]
	if !ok {
		return nil, fmt.Errorf("update collection %d: %w", c.ID, domain.ErrNotFound)
	}
	c.OwnerUsername = existing.OwnerUsername
	r.m.collections[c.ID] = c
	return &c, nil
}

func (r *MemoryCollectionRepository) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.collections[id]; !ok {
		return fmt.Errorf("delete collection %d: %w", id, domain.ErrNotFound)
	}
	r.m.deleteCollectionLocked(id)
	return nil
}

var _ domain.CardRepository = (*MemoryCardRepository)(nil)

type MemoryCardRepository struct{ m *Memory }

func (r *MemoryCardRepository) Create(_ context.Context, c domain.Card) (*domain.Card, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.collections[c.CollectionID]; !ok {
		return nil, fmt.Errorf("insert card: collection %d: %w", c.CollectionID, domain.ErrNotFound)
	}
	c.ID = r.m.nextID()
	c.NextTimeAt = c.NextTimeAt.UTC()
	r.m.cards[c.ID] = c
	return &c, nil
}

func (r *MemoryCardRepository) GetByID(_ context.Context, id int64) (*domain.Card, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	c, ok := r.m.cards[id]
	if !ok {
		return nil, fmt.Errorf("select card %d: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *MemoryCardRepository) ListByCollection(_ context.Context, collectionID int64) ([]domain.Card, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := []domain.Card{}
	for _, c := range r.m.cards {
		if c.CollectionID == collectionID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryCardRepository) Update(_ context.Context, c domain.Card) (*domain.Card, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.cards[c.ID]; !ok {
		return nil, fmt.Errorf("update card %d: %w", c.ID, domain.ErrNotFound)
	}
	if _, ok := r.m.collections[c.CollectionID]; !ok {
		return nil, fmt.Errorf("update card %d: collection %d: %w", c.ID, c.CollectionID, domain.ErrNotFound)
	}
	c.NextTimeAt = c.NextTimeAt.UTC()
	r.m.cards[c.ID] = c
	return &c, nil
}

func (r *MemoryCardRepository) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.cards[id]; !ok {
		return fmt.Errorf("delete card %d: %w", id, domain.ErrNotFound)
	}
	delete(r.m.cards, id)
	return nil
}
