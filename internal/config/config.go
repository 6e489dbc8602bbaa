package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port           string
	Storage        string
	DataDir        string
	DatabaseURL    string
	LogLevel       string
	AllowedOrigins []string
	ConfirmTTL     time.Duration
	NoticeTTL      time.Duration
}

// Load reads an optional .env file at envFile (skipped when empty or
// missing) and then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	confirmTTL, err := getDuration("CONFIRM_TTL", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	noticeTTL, err := getDuration("NOTICE_TTL", 3*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8081"),
		Storage:        strings.ToLower(getEnv("STORAGE", StorageFile)),
		DataDir:        getEnv("DATA_DIR", "./data"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		ConfirmTTL:     confirmTTL,
		NoticeTTL:      noticeTTL,
	}
	return cfg, nil
}

// Validate checks that the selected storage backend is usable.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile:
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required for file storage")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}
	if c.ConfirmTTL <= 0 {
		return errors.New("CONFIRM_TTL must be positive")
	}
	if c.NoticeTTL <= 0 {
		return errors.New("NOTICE_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
