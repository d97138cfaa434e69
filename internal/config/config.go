package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the UI service reads from the environment.
type Config struct {
	Environment string

	Port     string
	GRPCPort string

	BackendURL     string
	BackendTimeout time.Duration
	BackendRate    float64

	StorageDriver string
	SQLiteFile    string
	DatabaseURL   string

	// NATSMode is embedded, nats or memory
	NATSMode    string
	NATSURL     string
	NATSSubject string

	ClickHouseAddr     string
	ClickHouseDB       string
	ClickHouseUser     string
	ClickHousePassword string

	CookieSecure bool
	LogLevel     string
}

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:        getenv("ENVIRONMENT", "development"),
		Port:               getenv("PORT", "3000"),
		GRPCPort:           getenv("GRPC_PORT", "50051"),
		BackendURL:         strings.TrimRight(getenv("BACKEND_URL", "http://127.0.0.1:8000/api"), "/"),
		StorageDriver:      getenv("STORAGE_DRIVER", "memory"),
		SQLiteFile:         getenv("SQLITE_FILE", "dev.sqlite"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		NATSMode:           os.Getenv("NATS_MODE"),
		NATSURL:            getenv("NATS_URL", "nats://localhost:4222"),
		NATSSubject:        getenv("NATS_SUBJECT", "scrimhub.events"),
		ClickHouseAddr:     getenv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:       getenv("CLICKHOUSE_DB", "default"),
		ClickHouseUser:     getenv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: os.Getenv("CLICKHOUSE_PASSWORD"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.BackendTimeout, err = time.ParseDuration(getenv("BACKEND_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}
	if cfg.BackendRate, err = strconv.ParseFloat(getenv("BACKEND_RATE", "50"), 64); err != nil {
		return nil, fmt.Errorf("invalid BACKEND_RATE: %w", err)
	}
	if cfg.CookieSecure, err = strconv.ParseBool(getenv("COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}

	if cfg.NATSMode == "" {
		cfg.NATSMode = "nats"
		if cfg.IsDevelopment() {
			cfg.NATSMode = "embedded"
		}
	}
	switch cfg.NATSMode {
	case "embedded", "nats", "memory":
	default:
		return nil, fmt.Errorf("unknown NATS_MODE: %s (valid: embedded, nats, memory)", cfg.NATSMode)
	}

	switch cfg.StorageDriver {
	case "memory", "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" && !cfg.IsDevelopment() {
			return nil, errors.New("DATABASE_URL environment variable is required for postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER: %s (valid: memory, sqlite, postgres)", cfg.StorageDriver)
	}

	return cfg, nil
}

// IsDevelopment reports whether the dev stack (embedded NATS, mock analytics) is used.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
