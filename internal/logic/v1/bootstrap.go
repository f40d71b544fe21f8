package v1

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/flashcards-service/internal/security/keygen"
	"github.com/duynhne/flashcards-service/internal/security/token"
	"github.com/duynhne/flashcards-service/middleware"
)

// Client ids embedded in application tokens are 32 to 48 characters long.
const (
	clientIDMinLength = 32
	clientIDMaxLength = 48
)

// TokenIssuer signs application tokens. It needs no storage, so the
// issue-tokens command uses it without a database.
type TokenIssuer struct {
	keys  keygen.Generator
	codec *token.Codec
}

func NewTokenIssuer(keys keygen.Generator, codec *token.Codec) *TokenIssuer {
	return &TokenIssuer{keys: keys, codec: codec}
}

// GenerateStrongTokens mints n strong tokens, each with its own client id.
// Operators hand these to trusted applications, which then call /register.
func (t *TokenIssuer) GenerateStrongTokens(ctx context.Context, n int) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("token count must not be negative, got %d", n)
	}
	tokens := make([]string, 0, n)
	for i := 0; i < n; i++ {
		signed, err := t.issue(ctx, "auth.bootstrap_token", token.ClaimSet{}, true, "")
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, signed)
	}
	return tokens, nil
}

// issue stamps a fresh client_id onto claims, sets or clears strong and
// owner, and signs the result.
func (t *TokenIssuer) issue(ctx context.Context, spanName string, claims token.ClaimSet, strong bool, owner string) (string, error) {
	_, span := middleware.StartSpan(ctx, spanName, trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Bool("token.strong", strong),
		attribute.Bool("token.owned", owner != ""),
	))
	defer span.End()

	clientID, err := t.keys.GenerateBetween(clientIDMinLength, clientIDMaxLength)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("generate client id: %w", err)
	}

	claims.Put(token.ClaimClientID, token.String(clientID))
	claims.Remove(token.ClaimStrong)
	if strong {
		claims.Put(token.ClaimStrong, token.Bool(true))
	}
	claims.Remove(token.ClaimOwner)
	if owner != "" {
		claims.Put(token.ClaimOwner, token.String(owner))
	}

	signed, err := t.codec.Generate(claims)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("sign application token: %w", err)
	}

	span.AddEvent("token.issued")
	return signed, nil
}

// WriteTokensMarkdown renders tokens as a numbered Markdown list under a
// "Strong Access Tokens" heading.
func WriteTokensMarkdown(w io.Writer, tokens []string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "# Strong Access Tokens\n\n")
	for i, t := range tokens {
		fmt.Fprintf(bw, "%d. %s\n", i+1, t)
	}
	return bw.Flush()
}

// SaveTokensFile writes tokens to path, readable by the owner only.
func SaveTokensFile(path string, tokens []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open tokens file: %w", err)
	}
	if err := WriteTokensMarkdown(f, tokens); err != nil {
		_ = f.Close()
		return fmt.Errorf("write tokens file: %w", err)
	}
	return f.Close()
}
