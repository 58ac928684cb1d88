package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Editor    EditorConfig
	Assets    AssetsConfig
	Storage   StorageConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxConnections  int           `envconfig:"MAX_CONNECTIONS" default:"512"` // 0 disables the limit
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds allowed origins; empty allows every origin.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ORIGINS"`
}

// EditorConfig holds the editor viewport and settings file.
type EditorConfig struct {
	ViewportWidth  float64 `envconfig:"VIEWPORT_WIDTH" default:"1240"`
	ViewportHeight float64 `envconfig:"VIEWPORT_HEIGHT" default:"840"`
	SettingsFile   string  `envconfig:"SETTINGS_FILE"`
	FallbackFont   string  `envconfig:"FALLBACK_FONT" default:"Times New Roman"`
}

// AssetsConfig holds where images, stickers and fonts are fetched from.
type AssetsConfig struct {
	Root         string        `envconfig:"ASSETS_ROOT"`
	BaseURL      string        `envconfig:"ASSETS_BASE_URL"`
	AllowedHosts []string      `envconfig:"ASSETS_ALLOWED_HOSTS"` // remote hosts besides the base URL host
	Timeout      time.Duration `envconfig:"ASSETS_TIMEOUT" default:"15s"`
	RetryMax     int           `envconfig:"ASSETS_RETRY_MAX" default:"2"`
	MaxBytes     int64         `envconfig:"ASSETS_MAX_BYTES" default:"33554432"`
}

// StorageConfig holds where saved documents are kept.
type StorageConfig struct {
	Driver      string `envconfig:"STORAGE_DRIVER" default:"file"` // "file", "sqlite" or "none"
	Path        string `envconfig:"STORAGE_PATH" default:"data/documents"`
	Compression string `envconfig:"STORAGE_COMPRESSION" default:"gzip"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file", "sqlite", "none":
	default:
		return fmt.Errorf("invalid storage driver %q", c.Storage.Driver)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("invalid max connections %d", c.Server.MaxConnections)
	}
	if c.Editor.ViewportWidth <= 0 || c.Editor.ViewportHeight <= 0 {
		return fmt.Errorf("invalid viewport %vx%v", c.Editor.ViewportWidth, c.Editor.ViewportHeight)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
			MaxConnections:  512,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Editor: EditorConfig{
			ViewportWidth:  1240,
			ViewportHeight: 840,
			FallbackFont:   "Times New Roman",
		},
		Assets: AssetsConfig{
			Timeout:  15 * time.Second,
			RetryMax: 2,
			MaxBytes: 32 << 20,
		},
		Storage: StorageConfig{
			Driver:      "file",
			Path:        "data/documents",
			Compression: "gzip",
		},
	}
}
