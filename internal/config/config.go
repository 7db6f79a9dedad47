// Package config reads lastik's settings from the environment and optional
// .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds every setting of the lastik binary. Command-line flags
// override it.
type Config struct {
	Addr          string        `env:"LASTIK_ADDR"           envDefault:":8080"`
	Store         string        `env:"LASTIK_STORE"          envDefault:"sqlite"`
	DBPath        string        `env:"LASTIK_DB"             envDefault:"lastik.sqlite3"`
	LogPath       string        `env:"LASTIK_LOG"`
	AlertInterval time.Duration `env:"LASTIK_ALERT_INTERVAL" envDefault:"1h"`
	Redis         Redis
}

// Redis configures the redis store.
type Redis struct {
	Addr     string `env:"LASTIK_REDIS_ADDR"     envDefault:"localhost:6379"`
	Password string `env:"LASTIK_REDIS_PASSWORD"`
	DB       int    `env:"LASTIK_REDIS_DB"       envDefault:"0"`
	Prefix   string `env:"LASTIK_REDIS_PREFIX"   envDefault:"lastik:"`
}

// Load reads the given .env files, then parses the environment. Missing .env
// files are skipped. Variables already set in the environment win over the
// files.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the parser cannot.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want sqlite, redis or memory)", c.Store)
	}
	if c.AlertInterval < 0 {
		return fmt.Errorf("alert interval must not be negative")
	}
	return nil
}
