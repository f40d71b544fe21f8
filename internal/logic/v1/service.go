package v1

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/flashcards-service/internal/core/domain"
	"github.com/duynhne/flashcards-service/internal/security/keygen"
	"github.com/duynhne/flashcards-service/internal/security/token"
	"github.com/duynhne/flashcards-service/middleware"
)

// SaltRange bounds the length of generated password salts.
type SaltRange struct {
	Min int
	Max int
}

// AuthService implements token issuance and account business rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users    domain.UserRepository
	sessions *SessionManager
	hasher   domain.PasswordHasher
	keys     keygen.Generator
	tokens   *TokenIssuer
	salt     SaltRange

	// dummySalt is hashed against when the user does not exist, so unknown
	// usernames cost the same single hash as a wrong password.
	dummySalt string
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(
	users domain.UserRepository,
	sessions *SessionManager,
	hasher domain.PasswordHasher,
	keys keygen.Generator,
	codec *token.Codec,
	salt SaltRange,
) (*AuthService, error) {
	dummySalt, err := keys.GenerateBetween(salt.Min, salt.Max)
	if err != nil {
		return nil, fmt.Errorf("generate dummy salt: %w", err)
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		keys:      keys,
		tokens:    NewTokenIssuer(keys, codec),
		salt:      salt,
		dummySalt: dummySalt,
	}, nil
}

// Sessions exposes the session manager used by the service.
func (s *AuthService) Sessions() *SessionManager { return s.sessions }

// RegisterApplicationToken mints a strong token with a fresh client id.
// Nothing from the caller's token is carried over; owner is set only when a
// session username is given.
func (s *AuthService) RegisterApplicationToken(ctx context.Context, owner string) (string, error) {
	return s.tokens.issue(ctx, "auth.register_application_token", token.ClaimSet{}, true, owner)
}

// IssueBasicToken mints a basic-tier token with a fresh client id.
func (s *AuthService) IssueBasicToken(ctx context.Context, owner string) (string, error) {
	return s.tokens.issue(ctx, "auth.issue_basic_token", token.ClaimSet{}, false, owner)
}

// GenerateStrongTokens mints n strong tokens with the service's codec.
func (s *AuthService) GenerateStrongTokens(ctx context.Context, n int) ([]string, error) {
	return s.tokens.GenerateStrongTokens(ctx, n)
}

// Register creates a new account from credentials.
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", creds.Username),
	))
	defer span.End()

	if strings.TrimSpace(creds.Username) == "" {
		return nil, fmt.Errorf("register user: %w", ErrBlankUsername)
	}
	if strings.TrimSpace(creds.Password) == "" {
		return nil, fmt.Errorf("register user %q: %w", creds.Username, ErrBlankPassword)
	}
	if utf8.RuneCountInString(creds.Username) > domain.MaxUsernameLength {
		return nil, fmt.Errorf("register user: %w", ErrUsernameTooLong)
	}

	_, err := s.users.GetByUsername(ctx, creds.Username)
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, fmt.Errorf("register user %q: %w", creds.Username, ErrUserExists)
	case !errors.Is(err, domain.ErrNotFound):
		span.RecordError(err)
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	salt, err := s.keys.GenerateBetween(s.salt.Min, s.salt.Max)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	user := domain.NewUser(creds, s.hasher, salt)
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same name
		if errors.Is(err, domain.ErrAlreadyExists) {
			span.SetAttributes(attribute.Bool("registration.success", false))
			return nil, fmt.Errorf("register user %q: %w", creds.Username, ErrUserExists)
		}
		if errors.Is(err, domain.ErrValueTooLong) {
			return nil, fmt.Errorf("register user: %w", ErrUsernameTooLong)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(attribute.Bool("registration.success", true))
	span.AddEvent("user.registered")
	return &user, nil
}

// Login verifies credentials and opens a session, returning its id.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", creds.Username),
	))
	defer span.End()

	user, err := s.users.GetByUsername(ctx, creds.Username)
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.Hash(creds.Password, s.dummySalt)
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate user %q: %w", creds.Username, ErrUserNotFound)
	}
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("query user %q: %w", creds.Username, err)
	}

	computed := s.hasher.Hash(creds.Password, user.Salt)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(user.HashedPassword)) != 1 {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", fmt.Errorf("authenticate user %q: %w", creds.Username, ErrInvalidCredentials)
	}

	sessionID, err := s.sessions.Create(ctx, user.Username)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("create session: %w", err)
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	span.AddEvent("user.authenticated")
	return sessionID, nil
}

// Logout invalidates the session. Unknown ids succeed.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	ctx, span := middleware.StartSpan(ctx, "auth.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := s.sessions.Invalidate(ctx, sessionID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

// GetUser returns the account for username.
func (s *AuthService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.get_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user %q: %w", username, ErrUserNotFound)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", username, err)
	}
	return user, nil
}

// DeleteUser removes the account with its collections and cards, then
// invalidates the session that requested it.
func (s *AuthService) DeleteUser(ctx context.Context, username, sessionID string) error {
	ctx, span := middleware.StartSpan(ctx, "auth.delete_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	if err := s.users.Delete(ctx, username); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete user %q: %w", username, ErrUserNotFound)
		}
		span.RecordError(err)
		return fmt.Errorf("delete user %q: %w", username, err)
	}

	if err := s.sessions.Invalidate(ctx, sessionID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("invalidate session: %w", err)
	}

	span.AddEvent("user.deleted")
	return nil
}
