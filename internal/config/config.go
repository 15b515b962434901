// Package config provides configuration loading and structs for the showroom server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Chat    ChatConfig    `yaml:"chat"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// BaseURL is the externally visible URL prefix used when building asset
	// links. Defaults to http://<host>:<port>.
	BaseURL string `yaml:"base_url"`
	// AdminToken, when set, is required as a bearer token on admin routes.
	// Empty leaves the admin surface open, matching the delegated-auth
	// deployment where the reverse proxy handles sign-in.
	AdminToken string `yaml:"admin_token"`
}

// StorageConfig holds paths for the database, search index, and uploaded assets.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	IndexPath    string `yaml:"index_path"`
	AssetsDir    string `yaml:"assets_dir"`
}

// ChatConfig holds chat relay settings. The API key itself is read from the
// environment variable named by APIKeyEnv, never from the file.
type ChatConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	// PromptTemplate is the system prompt with {custom_instructions} and
	// {inventory_context} tokens. Empty uses the built-in default.
	PromptTemplate string `yaml:"prompt_template"`
	// BrochureMode is "inline" (attach the PDF bytes) or "text" (extract
	// plain text and attach that instead).
	BrochureMode string `yaml:"brochure_mode"`
	// FetchTimeoutSeconds bounds the outbound brochure download.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	// AutoContext fills inventoryContext and brochureUrl from the store when
	// the caller omits them.
	AutoContext bool `yaml:"auto_context"`
}

// APIKey returns the model-provider API key from the environment.
func (c *ChatConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	cfg.Storage.AssetsDir = expandPath(cfg.Storage.AssetsDir, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
