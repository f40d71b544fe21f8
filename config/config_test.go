package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "flashcards-service", cfg.Service.Name)
	assert.Equal(t, "8080", cfg.Service.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "SHA-256", cfg.Hashing.Algorithm)
	assert.Equal(t, 32, cfg.Hashing.SaltMinLength)
	assert.Equal(t, 48, cfg.Hashing.SaltMaxLength)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.True(t, cfg.Session.SecureCookie)
	assert.Nil(t, cfg.Token.LifetimeMs)
	assert.Nil(t, cfg.TokenLifetime())
	assert.Nil(t, cfg.SessionLifetime())
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeoutDuration())
	assert.Equal(t, time.Duration(0), cfg.GetReadinessDrainDelayDuration())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*testing.T, *Config)
	}{
		{
			name: "token config override",
			envVars: map[string]string{
				"JWT_SECRET":      "customsecret",
				"JWT_ISSUER":      "issuer",
				"JWT_AUDIENCE":    "audience",
				"JWT_REALM":       "realm",
				"JWT_LIFETIME_MS": "60000",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "customsecret", cfg.Token.Secret)
				assert.Equal(t, "issuer", cfg.Token.Issuer)
				assert.Equal(t, "audience", cfg.Token.Audience)
				assert.Equal(t, "realm", cfg.Token.Realm)
				require.NotNil(t, cfg.TokenLifetime())
				assert.Equal(t, time.Minute, *cfg.TokenLifetime())
			},
		},
		{
			name: "hashing config override",
			envVars: map[string]string{
				"HASHING_PEPPER":          "pepper",
				"HASHING_ALGORITHM":       "SHA-512",
				"HASHING_SALT_MIN_LENGTH": "8",
				"HASHING_SALT_MAX_LENGTH": "16",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "pepper", cfg.Hashing.Pepper)
				assert.Equal(t, "SHA-512", cfg.Hashing.Algorithm)
				assert.Equal(t, 8, cfg.Hashing.SaltMinLength)
				assert.Equal(t, 16, cfg.Hashing.SaltMaxLength)
			},
		},
		{
			name: "session config override",
			envVars: map[string]string{
				"SESSION_STORE":         "badger",
				"SESSION_LIFETIME_MS":   "1500",
				"SESSION_BADGER_DIR":    "/tmp/sessions",
				"SESSION_SECURE_COOKIE": "false",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, SessionStoreBadger, cfg.Session.Store)
				assert.Equal(t, "/tmp/sessions", cfg.Session.BadgerDir)
				assert.False(t, cfg.Session.SecureCookie)
				require.NotNil(t, cfg.SessionLifetime())
				assert.Equal(t, 1500*time.Millisecond, *cfg.SessionLifetime())
			},
		},
		{
			name: "database driver override",
			envVars: map[string]string{
				"DATABASE_DRIVER": "memory",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DatabaseDriverMemory, cfg.Database.Driver)
			},
		},
		{
			name: "shutdown config override",
			envVars: map[string]string{
				"SHUTDOWN_TIMEOUT_SECONDS":              "30",
				"SHUTDOWN_READINESS_DRAIN_DELAY_SECONDS": "5",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30*time.Second, cfg.GetShutdownTimeoutDuration())
				assert.Equal(t, 5*time.Second, cfg.GetReadinessDrainDelayDuration())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()
			require.NoError(t, err)

			tt.expected(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Service:  Service{Port: "8080"},
			Database: Database{Driver: DatabaseDriverPostgres},
			Token:    Token{Secret: "secret"},
			Hashing:  Hashing{Algorithm: "SHA-256", SaltMinLength: 8, SaltMaxLength: 16},
			Session:  Session{Store: SessionStoreMemory},
			Tracing:  Tracing{SampleRate: 1},
		}
	}
	negative := int64(-1)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Token.Secret = "" }, wantErr: "JWT_SECRET"},
		{name: "inverted salt range", mutate: func(c *Config) { c.Hashing.SaltMaxLength = 4 }, wantErr: "HASHING_SALT_MAX_LENGTH"},
		{name: "zero salt length", mutate: func(c *Config) { c.Hashing.SaltMinLength = 0 }, wantErr: "HASHING_SALT_MIN_LENGTH"},
		{name: "unknown algorithm", mutate: func(c *Config) { c.Hashing.Algorithm = "MD5" }, wantErr: "HASHING_ALGORITHM"},
		{name: "unknown store", mutate: func(c *Config) { c.Session.Store = "redis" }, wantErr: "SESSION_STORE"},
		{name: "salt wider than column", mutate: func(c *Config) { c.Hashing.SaltMaxLength = MaxSaltLength + 1 }, wantErr: "must not exceed 64"},
		{name: "salt at column width", mutate: func(c *Config) { c.Hashing.SaltMaxLength = MaxSaltLength }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: "DATABASE_DRIVER"},
		{name: "memory driver", mutate: func(c *Config) { c.Database.Driver = DatabaseDriverMemory }},
		{
			name: "memory driver with postgres sessions",
			mutate: func(c *Config) {
				c.Database.Driver = DatabaseDriverMemory
				c.Session.Store = SessionStorePostgres
			},
			wantErr: "requires DATABASE_DRIVER postgres",
		},
		{name: "negative token lifetime", mutate: func(c *Config) { c.Token.LifetimeMs = &negative }, wantErr: "JWT_LIFETIME_MS"},
		{name: "sample rate out of range", mutate: func(c *Config) { c.Tracing.SampleRate = 2 }, wantErr: "TRACING_SAMPLE_RATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
