// Package config loads mailerctl configuration from an optional YAML file
// with environment variable overrides. The tool must work with zero config:
// every field has a usable default pointing at the local development API.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the CLI and the local stub server.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Output  OutputConfig  `yaml:"output"`
	Stub    StubConfig    `yaml:"stub"`
}

// APIConfig holds the remote mailer API settings.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// ExpiryPolicy controls what a non-login 401 does to the cached
	// session: "clear" (default, matches the web console) or "keep".
	ExpiryPolicy string `yaml:"expiry_policy"`
}

// Timeout returns the configured timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionConfig holds the local credential cache settings.
type SessionConfig struct {
	// Path of the session cache file. Empty means the per-user default
	// under the OS config dir.
	Path string `yaml:"path"`
}

// OutputConfig holds table rendering settings.
type OutputConfig struct {
	PageSize int `yaml:"page_size"`
}

// StubConfig holds settings for cmd/stub-api, the local development server.
type StubConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
	// Seed fills the stub with demo contacts, lists, and templates so the
	// CLI has something to show on first run.
	Seed bool `yaml:"seed"`
}

// DefaultPath returns the standard config file location,
// $XDG_CONFIG_HOME/mailerctl/config.yaml (or the OS equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mailerctl", "config.yaml")
}

// Load reads and parses the configuration file. A missing file is not an
// error: the defaults describe a working local setup.
func Load(path string) (*Config, error) {
	var cfg Config

	// Seed defaults on, set before unmarshal so an explicit "seed: false"
	// in the file still wins.
	cfg.Stub.Seed = true

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Set defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://127.0.0.1:8000"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 30
	}
	if cfg.API.ExpiryPolicy == "" {
		cfg.API.ExpiryPolicy = "clear"
	}
	if cfg.Output.PageSize == 0 {
		cfg.Output.PageSize = 15
	}
	if cfg.Stub.Port == 0 {
		cfg.Stub.Port = 8000
	}
	if cfg.Stub.Host == "" {
		cfg.Stub.Host = "127.0.0.1"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file first (if present) so local setups can keep their
// endpoint override there.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if baseURL := os.Getenv("MAILER_API_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if policy := os.Getenv("MAILER_EXPIRY_POLICY"); policy != "" {
		cfg.API.ExpiryPolicy = policy
	}
	if sessionPath := os.Getenv("MAILER_SESSION_FILE"); sessionPath != "" {
		cfg.Session.Path = sessionPath
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p <= 65535 {
			cfg.Stub.Port = p
		}
	}

	return cfg, nil
}
