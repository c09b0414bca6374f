package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	ServerAddress string

	StorageDriver    string
	PostgresConn     string
	PostgresDatabase string
	HireLockTimeout  time.Duration

	JWTSecret string

	HireRateLimit float64
	HireRateBurst int

	LogLevel log.Lvl
}

var logLevels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
}

// Load reads the configuration from the environment. Variables from .env files are
// applied first; variables already set in the environment take precedence.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	cfg := &Config{
		ServerAddress:    getenv("SERVER_ADDRESS", ":8080"),
		StorageDriver:    getenv("STORAGE_DRIVER", DriverPostgres),
		PostgresConn:     os.Getenv("POSTGRES_CONN"),
		PostgresDatabase: os.Getenv("POSTGRES_DATABASE"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.HireLockTimeout, err = time.ParseDuration(getenv("HIRE_LOCK_TIMEOUT", "5s")); err != nil {
		return nil, errors.Wrap(err, "HIRE_LOCK_TIMEOUT")
	}
	if cfg.HireRateLimit, err = strconv.ParseFloat(getenv("HIRE_RATE_LIMIT", "5"), 64); err != nil {
		return nil, errors.Wrap(err, "HIRE_RATE_LIMIT")
	}
	if cfg.HireRateBurst, err = strconv.Atoi(getenv("HIRE_RATE_BURST", "10")); err != nil {
		return nil, errors.Wrap(err, "HIRE_RATE_BURST")
	}

	level, ok := logLevels[getenv("LOG_LEVEL", "info")]
	if !ok {
		return nil, errors.Errorf("LOG_LEVEL: unknown level %q", os.Getenv("LOG_LEVEL"))
	}
	cfg.LogLevel = level

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.PostgresConn == "" {
			return errors.New("POSTGRES_CONN is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return errors.Errorf("STORAGE_DRIVER: unknown driver %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.HireLockTimeout <= 0 {
		return errors.New("HIRE_LOCK_TIMEOUT should be positive")
	}
	if c.HireRateLimit <= 0 || c.HireRateBurst <= 0 {
		return errors.New("HIRE_RATE_LIMIT and HIRE_RATE_BURST should be positive")
	}

	return nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}
