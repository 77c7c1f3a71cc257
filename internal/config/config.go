// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// minSecretLen is the shortest accepted token signing secret, in bytes.
const minSecretLen = 16

// DefaultListenAddr is used when PHONEBOOK_LISTEN_ADDR is unset.
const DefaultListenAddr = "127.0.0.1:8080"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	DBPath     string
	JWTSecret  []byte
	TokenTTL   time.Duration
	LogLevel   slog.Level
	Audit      AuditConfig
}

// AuditConfig controls the rotating audit log file.
type AuditConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load reads configuration from environment variables and returns a validated Config.
// PHONEBOOK_JWT_SECRET is required and must be at least 16 bytes.
// Optional variables with defaults: PHONEBOOK_LISTEN_ADDR (127.0.0.1:8080),
// PHONEBOOK_DB_PATH (phonebook.db), PHONEBOOK_TOKEN_TTL (24h),
// PHONEBOOK_LOG_LEVEL (info), PHONEBOOK_AUDIT_LOG_PATH (audit.log),
// PHONEBOOK_AUDIT_MAX_SIZE_MB (10), PHONEBOOK_AUDIT_MAX_BACKUPS (1),
// PHONEBOOK_AUDIT_MAX_AGE_DAYS (0, keep forever), PHONEBOOK_AUDIT_COMPRESS (false).
func Load() (*Config, error) {
	secret := os.Getenv("PHONEBOOK_JWT_SECRET")
	if secret == "" {
		return nil, errors.New("PHONEBOOK_JWT_SECRET is required")
	}
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("PHONEBOOK_JWT_SECRET must be at least %d bytes", minSecretLen)
	}

	tokenTTL := 24 * time.Hour
	if v, ok := os.LookupEnv("PHONEBOOK_TOKEN_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PHONEBOOK_TOKEN_TTL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("PHONEBOOK_TOKEN_TTL must be positive, got %s", parsed)
		}
		tokenTTL = parsed
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("PHONEBOOK_LOG_LEVEL"); ok {
		if err := logLevel.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return nil, fmt.Errorf("PHONEBOOK_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	audit, err := LoadAudit()
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr: LoadListenAddr(),
		DBPath:     LoadDBPath(),
		JWTSecret:  []byte(secret),
		TokenTTL:   tokenTTL,
		LogLevel:   logLevel,
		Audit:      audit,
	}, nil
}

// LoadListenAddr returns PHONEBOOK_LISTEN_ADDR, defaulting to
// DefaultListenAddr. cmd/healthcheck reads it without the secret.
func LoadListenAddr() string {
	if v, ok := os.LookupEnv("PHONEBOOK_LISTEN_ADDR"); ok && v != "" {
		return v
	}
	return DefaultListenAddr
}

// LoadDBPath returns PHONEBOOK_DB_PATH, defaulting to phonebook.db. The admin
// CLI uses it without requiring the server settings.
func LoadDBPath() string {
	if v, ok := os.LookupEnv("PHONEBOOK_DB_PATH"); ok && v != "" {
		return v
	}
	return "phonebook.db"
}

// LoadAudit reads only the audit log settings.
func LoadAudit() (AuditConfig, error) {
	cfg := AuditConfig{
		Path:       "audit.log",
		MaxSizeMB:  10,
		MaxBackups: 1,
	}

	if v, ok := os.LookupEnv("PHONEBOOK_AUDIT_LOG_PATH"); ok && v != "" {
		cfg.Path = v
	}

	var err error
	if cfg.MaxSizeMB, err = intEnv("PHONEBOOK_AUDIT_MAX_SIZE_MB", cfg.MaxSizeMB, 1); err != nil {
		return AuditConfig{}, err
	}
	if cfg.MaxBackups, err = intEnv("PHONEBOOK_AUDIT_MAX_BACKUPS", cfg.MaxBackups, 0); err != nil {
		return AuditConfig{}, err
	}
	if cfg.MaxAgeDays, err = intEnv("PHONEBOOK_AUDIT_MAX_AGE_DAYS", cfg.MaxAgeDays, 0); err != nil {
		return AuditConfig{}, err
	}

	if v, ok := os.LookupEnv("PHONEBOOK_AUDIT_COMPRESS"); ok {
		cfg.Compress, err = strconv.ParseBool(v)
		if err != nil {
			return AuditConfig{}, fmt.Errorf("PHONEBOOK_AUDIT_COMPRESS has invalid boolean %q: %w", v, err)
		}
	}

	return cfg, nil
}

// intEnv parses key as an integer no smaller than minimum, or returns def when unset.
func intEnv(key string, def, minimum int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s has invalid integer %q: %w", key, v, err)
	}
	if n < minimum {
		return 0, fmt.Errorf("%s must be at least %d, got %d", key, minimum, n)
	}
	return n, nil
}
