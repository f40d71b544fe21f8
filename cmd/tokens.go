package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/duynhne/flashcards-service/config"
	"github.com/duynhne/flashcards-service/internal/logger"
	logicv1 "github.com/duynhne/flashcards-service/internal/logic/v1"
	"github.com/duynhne/flashcards-service/internal/security/keygen"
	"github.com/duynhne/flashcards-service/internal/security/token"
)

func issueTokensCmd() *cli.Command {
	return &cli.Command{
		Name:  "issue-tokens",
		Usage: "Mint strong application tokens and write them to a Markdown file",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of tokens to mint",
				Value:   1,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "File the tokens are written to",
				Value:   "tokens.md",
				EnvVars: []string{"BOOTSTRAP_TOKENS_FILE"},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			logger.Setup(cfg.Logging.Level)

			codec, err := newCodec(cfg)
			if err != nil {
				return err
			}
			issuer := logicv1.NewTokenIssuer(keygen.New(), codec)

			tokens, err := issuer.GenerateStrongTokens(c.Context, c.Int("count"))
			if err != nil {
				return err
			}
			path := c.String("output")
			if err := logicv1.SaveTokensFile(path, tokens); err != nil {
				return err
			}

			log.Info().Int("count", len(tokens)).Str("file", path).Msg("Strong tokens written")
			return nil
		},
	}
}

func newCodec(cfg *config.Config) (*token.Codec, error) {
	codec, err := token.NewCodec(token.Config{
		Secret:   cfg.Token.Secret,
		Issuer:   cfg.Token.Issuer,
		Audience: cfg.Token.Audience,
		Realm:    cfg.Token.Realm,
		Lifetime: cfg.TokenLifetime(),
	})
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	return codec, nil
}
