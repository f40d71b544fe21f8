package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/duynhne/flashcards-service/config"
	"github.com/duynhne/flashcards-service/internal/core/domain"
	"github.com/duynhne/flashcards-service/internal/core/repository"
	"github.com/duynhne/flashcards-service/internal/logger"
	logicv1 "github.com/duynhne/flashcards-service/internal/logic/v1"
	"github.com/duynhne/flashcards-service/internal/security/hashing"
	"github.com/duynhne/flashcards-service/internal/security/keygen"
	v1 "github.com/duynhne/flashcards-service/internal/web/v1"
	"github.com/duynhne/flashcards-service/middleware"
)

const sessionPurgeInterval = 10 * time.Minute

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger.Setup(cfg.Logging.Level)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.Port).
		Str("database_driver", cfg.Database.Driver).
		Str("session_store", cfg.Session.Store).
		Msg("Service starting")

	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		provider, err := middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			tp = provider
			log.Info().
				Str("endpoint", cfg.Tracing.Endpoint).
				Float64("sample_rate", cfg.Tracing.SampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize profiling")
		} else {
			log.Info().Str("endpoint", cfg.Profiling.Endpoint).Msg("Profiling initialized")
			defer middleware.StopProfiling()
		}
	}

	db, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	store, closeStore, err := openSessionStore(ctx, cfg, db.pool)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore.Close(); err != nil {
			log.Error().Err(err).Msg("Session store close error")
		}
	}()

	hasher, err := hashing.New(cfg.Hashing.Pepper, cfg.Hashing.Algorithm)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}
	codec, err := newCodec(cfg)
	if err != nil {
		return err
	}
	keys := keygen.New()
	sessions := logicv1.NewSessionManager(store, keys)

	auth, err := logicv1.NewAuthService(
		db.users,
		sessions,
		hasher,
		keys,
		codec,
		logicv1.SaltRange{Min: cfg.Hashing.SaltMinLength, Max: cfg.Hashing.SaltMaxLength},
	)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	collections := logicv1.NewCollectionService(db.collections)
	cards := logicv1.NewCardService(db.cards, collections)

	if cfg.BootstrapTokens > 0 {
		tokens, err := auth.GenerateStrongTokens(ctx, cfg.BootstrapTokens)
		if err != nil {
			return fmt.Errorf("bootstrap tokens: %w", err)
		}
		if err := logicv1.SaveTokensFile(cfg.BootstrapTokensFile, tokens); err != nil {
			return fmt.Errorf("bootstrap tokens: %w", err)
		}
		log.Info().Int("count", len(tokens)).Str("file", cfg.BootstrapTokensFile).Msg("Strong tokens written")
	}

	if cfg.Service.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	var isShuttingDown atomic.Bool

	r.Use(middleware.TracingMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 503 once shutdown has started, so traffic drains before the listener closes.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database_unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := v1.NewHandler(auth, collections, cards, v1.NewGate(codec, sessions), v1.CookieConfig{
		Secure: cfg.Session.SecureCookie,
		MaxAge: cfg.SessionLifetime(),
	})
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Starting flashcards service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	isShuttingDown.Store(true)
	if drainDelay := cfg.GetReadinessDrainDelayDuration(); drainDelay > 0 {
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay started")
		time.Sleep(drainDelay)
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", shutdownTimeout).Msg("Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openSessionStore builds the store named by SESSION_STORE. The returned
// closer releases it; for postgres it also stops the expiry purge loop.
// pool is nil with the memory driver, which Validate pairs only with the
// memory and badger stores.
func openSessionStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (domain.SessionStore, io.Closer, error) {
	lifetime := cfg.SessionLifetime()

	switch strings.ToLower(cfg.Session.Store) {
	case config.SessionStorePostgres:
		store := repository.NewSessionStore(pool, lifetime)
		purgeCtx, stop := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			purgeExpiredSessions(purgeCtx, store)
		}()
		return store, closerFunc(func() error {
			stop()
			<-done
			return nil
		}), nil

	case config.SessionStoreBadger:
		db, err := repository.OpenBadger(cfg.Session.BadgerDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger session store: %w", err)
		}
		return repository.NewBadgerSessionStore(db, lifetime), db, nil

	default:
		store, err := repository.NewBigCacheSessionStore(ctx, lifetime)
		if err != nil {
			return nil, nil, fmt.Errorf("open memory session store: %w", err)
		}
		return store, store, nil
	}
}

func purgeExpiredSessions(ctx context.Context, store *repository.PgxSessionStore) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("Expired session purge failed")
				}
				continue
			}
			if n > 0 {
				log.Debug().Int64("count", n).Msg("Expired sessions purged")
			}
		}
	}
}
