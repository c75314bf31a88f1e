package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ericogr/combo-chronicle/internal/constants"
)

// Config is the server configuration. Values come from the YAML file and
// are then overridden by COMBO_* environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Catalog  CatalogConfig  `yaml:"catalog" envPrefix:"CATALOG_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Game     GameConfig     `yaml:"game" envPrefix:"GAME_"`
}

type ServerConfig struct {
	Address string `yaml:"address" env:"ADDRESS"`
	// AllowedOrigins lists origins allowed to open a run stream. Empty
	// enforces same-origin; "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	StreamBuffer   int      `yaml:"stream_buffer" env:"STREAM_BUFFER"`
}

type CatalogConfig struct {
	// Dir holds the catalog CSV files. Empty uses the embedded catalog.
	Dir string `yaml:"dir" env:"DIR"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

type LogConfig struct {
	Level      string `yaml:"level" env:"LEVEL"`
	File       string `yaml:"file" env:"FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" env:"MAX_AGE_DAYS"`
}

type GameConfig struct {
	// Seed fixes run randomness for reproducible sessions. Zero uses the
	// clock.
	Seed           int64         `yaml:"seed" env:"SEED"`
	RunIdleTimeout time.Duration `yaml:"run_idle_timeout" env:"RUN_IDLE_TIMEOUT"`
	SweepInterval  time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:      constants.DefaultServerAddress,
			StreamBuffer: 16,
		},
		Database: DatabaseConfig{Path: constants.DefaultDatabasePath},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Game: GameConfig{
			RunIdleTimeout: 2 * time.Hour,
			SweepInterval:  time.Minute,
		},
	}
}

// LoadConfig reads the YAML file at path, applies environment overrides
// and validates the result. A missing file falls back to defaults.
func LoadConfig(path string) (*Config, error) {
	return load(path, nil)
}

func load(path string, environ map[string]string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      constants.EnvPrefix,
		Environment: environ,
	}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return fmt.Errorf("server.address is empty")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is empty")
	}
	if c.Server.StreamBuffer < 0 {
		return fmt.Errorf("server.stream_buffer must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Game.RunIdleTimeout < 0 || c.Game.SweepInterval < 0 {
		return fmt.Errorf("game durations must not be negative")
	}
	return nil
}

// IsOriginAllowed reports whether a browser at origin may open a stream
// served from requestHost.
func (c *ServerConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true
	}
	host := origin
	if i := strings.Index(origin, "://"); i != -1 {
		host = origin[i+3:]
	}
	return strings.TrimSuffix(host, "/") == requestHost
}
