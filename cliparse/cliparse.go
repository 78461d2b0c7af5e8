// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
)

type Config struct {
	Port          int
	RedisURL      string
	NATSURL       string
	DatabaseURL   string
	DatabaseType  string
	RoomTTL       time.Duration
	AllowedOrigin string
}

// ArchiveEnabled reports whether result snapshots should be persisted
func (c Config) ArchiveEnabled() bool {
	return c.DatabaseURL != ""
}

// LoadEnvFile loads variables from a .env file without overriding the
// ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-rank", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.RedisURL, "r", "", "Redis URL")
	fs.StringVar(&cfg.NATSURL, "n", "", "NATS URL (optional, enables cross-node fan-out)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (optional, enables result archive)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.DurationVar(&cfg.RoomTTL, "ttl", 0, "Idle room expiry, 0 disables")
	fs.StringVar(&cfg.AllowedOrigin, "origin", "", "Allowed CORS and websocket origin")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, errors.New("redis URL required (use -r or REDIS_URL env)")
	}

	if cfg.NATSURL == "" {
		cfg.NATSURL = os.Getenv("NATS_URL")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.RoomTTL == 0 {
		if ttlStr := os.Getenv("ROOM_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, errors.New("invalid ROOM_TTL env variable")
			}
			cfg.RoomTTL = ttl
		}
	}
	if cfg.RoomTTL < 0 {
		return Config{}, errors.New("room TTL must not be negative")
	}

	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = os.Getenv("ALLOWED_ORIGIN")
	}

	return cfg, nil
}
