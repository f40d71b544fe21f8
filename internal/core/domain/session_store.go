package domain

import "context"

// UserSession is the payload stored under a session id.
type UserSession struct {
	Username string `json:"username"`
}

// SessionStore persists opaque session values keyed by session id.
// Implementations must be safe for concurrent use.
type SessionStore interface {
	// Write stores value under id, silently overwriting any previous value.
	Write(ctx context.Context, id string, value []byte) error

	// Read returns the value stored under id.
	// Returns ErrNotFound when the id is unknown or expired.
	Read(ctx context.Context, id string) ([]byte, error)

	// Invalidate removes id. Removing an unknown id is not an error.
	Invalidate(ctx context.Context, id string) error

	// InvalidateAll removes every session.
	InvalidateAll(ctx context.Context) error
}
