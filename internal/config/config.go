package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	Storage       string
	Timezone      string
	Location      *time.Location
	RunMigrations bool
	// AdminTelegramID seeds an admin account and a demo roster in memory mode.
	AdminTelegramID int64

	// EnvFileLoaded reports whether a .env file was found; main logs it once the logger exists.
	EnvFileLoaded bool
}

func Load() (*Config, error) {
	// A missing .env is fine, the process environment is used as is.
	loaded := godotenv.Load(".env") == nil

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		Storage:       strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE"))),
		Timezone:      strings.TrimSpace(os.Getenv("TIMEZONE")),
		RunMigrations: true,
		EnvFileLoaded: loaded,
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Storage == "" {
		cfg.Storage = StoragePostgres
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}

	if raw := os.Getenv("MIGRATIONS"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("MIGRATIONS must be a boolean, got %q", raw)
		}
		cfg.RunMigrations = v
	}

	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID must be an integer, got %q", raw)
		}
		cfg.AdminTelegramID = id
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.Storage)
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
