// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment names the deployment the process runs in.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTest        Environment = "test"
	EnvProduction  Environment = "production"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// DefaultSessionSecret is only acceptable outside production.
const DefaultSessionSecret = "focusflow-secret-key-change-in-production"

// Config holds every setting the server reads at start-up.
type Config struct {
	Port        int         `envconfig:"PORT" default:"3000"`
	Environment Environment `envconfig:"APP_ENV" default:"development"`

	// Store
	StoreDriver string `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017/focusflow"`
	DataDir     string `envconfig:"DATA_DIR" default:"./data"`

	// Sessions
	SessionSecret string        `envconfig:"SESSION_SECRET" default:"focusflow-secret-key-change-in-production"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	CORSOrigins    []string      `envconfig:"CORS_ORIGINS" default:"*"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"5s"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogFile   string `envconfig:"LOG_FILE"`
}

// Load reads a .env file from the working directory, if there is one, and
// then parses the environment. Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return New()
}

// New parses the environment without touching .env.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT: %s", c.LogFormat)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	if c.IsProduction() && c.SessionSecret == DefaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid SESSION_TTL: %s", c.SessionTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT: %s", c.RequestTimeout)
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SQLitePath is the database file used by the sqlite driver.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "habits.db")
}
