package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration of the API.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Pagination PaginationConfig `yaml:"pagination"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return "0.0.0.0:" + s.Port
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type PaginationConfig struct {
	ExplorePageSize int `yaml:"explore_page_size"`
	FeedPageSize    int `yaml:"feed_page_size"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultConfig returns a configuration usable for local development once a
// JWT secret is supplied.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			AllowedOrigins:  []string{"http://localhost:3000"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
		},
		Auth: AuthConfig{
			Issuer:   "flashly-api",
			Audience: "flashly",
			TokenTTL: 24 * time.Hour,
		},
		Pagination: PaginationConfig{
			ExplorePageSize: 10,
			FeedPageSize:    10,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file and finally the process environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		_ = godotenv.Load()
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if url := os.Getenv("DB_URL"); url != "" {
		c.Database.URL = url
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		c.Auth.Secret = secret
	}
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		c.Auth.Issuer = issuer
	}
	if audience := os.Getenv("JWT_AUDIENCE"); audience != "" {
		c.Auth.Audience = audience
	}
	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Auth.TokenTTL = d
		}
	}
	if size := os.Getenv("EXPLORE_PAGE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			c.Pagination.ExplorePageSize = n
		}
	}
	if size := os.Getenv("FEED_PAGE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			c.Pagination.FeedPageSize = n
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if CurrentEnvironment().IsDevelopment {
		c.Log.Development = true
	}
}

// Validate reports the first setting that would stop the server from running.
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("JWT_SECRET_KEY not set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("DB_URL not set")
	}
	if c.Pagination.ExplorePageSize <= 0 || c.Pagination.FeedPageSize <= 0 {
		return errors.New("page sizes must be positive")
	}
	return nil
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
