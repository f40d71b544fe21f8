package domain

import "context"

// Credentials are the username and plaintext password supplied by a client.
// They are never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PasswordHasher hashes a password with a salt.
type PasswordHasher interface {
	Hash(password, salt string) string
}

// MaxUsernameLength is the width of the users.username column, in characters.
const MaxUsernameLength = 64

// User is a registered account. HashedPassword is Hash(password, Salt).
type User struct {
	Username       string
	HashedPassword string
	Salt           string
}

// NewUser builds a User from credentials, hashing the password with salt.
func NewUser(credentials Credentials, hasher PasswordHasher, salt string) User {
	return User{
		Username:       credentials.Username,
		HashedPassword: hasher.Hash(credentials.Password, salt),
		Salt:           salt,
	}
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on SQL or pgx directly.
type UserRepository interface {
	// Create inserts a new user.
	// Returns ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, user User) error

	// GetByUsername returns the user matching the given username.
	// Returns ErrNotFound when no user is found.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Delete removes the user together with their collections and cards.
	// Returns ErrNotFound when no user is found.
	Delete(ctx context.Context, username string) error
}
