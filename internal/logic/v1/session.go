package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/duynhne/flashcards-service/internal/core/domain"
	"github.com/duynhne/flashcards-service/internal/security/keygen"
)

// SessionIDLength is the number of alphanumerics in a session id.
const SessionIDLength = 48

// SessionManager creates and resolves user sessions on top of a
// domain.SessionStore.
type SessionManager struct {
	store domain.SessionStore
	keys  keygen.Generator
}

func NewSessionManager(store domain.SessionStore, keys keygen.Generator) *SessionManager {
	return &SessionManager{store: store, keys: keys}
}

// Create stores a session for username and returns its id.
func (m *SessionManager) Create(ctx context.Context, username string) (string, error) {
	id, err := m.keys.Generate(SessionIDLength)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	payload, err := json.Marshal(domain.UserSession{Username: username})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := m.store.Write(ctx, id, payload); err != nil {
		return "", err
	}
	return id, nil
}

// Resolve returns the session stored under id.
func (m *SessionManager) Resolve(ctx context.Context, id string) (*domain.UserSession, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	payload, err := m.store.Read(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var s domain.UserSession
	if err := json.Unmarshal(payload, &s); err != nil || s.Username == "" {
		// unreadable payloads are treated like a missing session
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// Invalidate removes the session. Unknown ids are ignored.
func (m *SessionManager) Invalidate(ctx context.Context, id string) error {
	return m.store.Invalidate(ctx, id)
}

func (m *SessionManager) InvalidateAll(ctx context.Context) error {
	return m.store.InvalidateAll(ctx)
}
