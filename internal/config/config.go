// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	// Mock routes all data access to the in-memory fixtures instead of the
	// remote API (offline development mode).
	Mock bool
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type StateConfig struct {
	// Dir holds the local state database (credentials, recent searches,
	// preferences). Defaults to ~/.docchat.
	Dir string `yaml:"dir"`
}

type StubConfig struct {
	Port      int           `yaml:"port"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// ReplyDelay simulates backend latency on message sends.
	ReplyDelay time.Duration `yaml:"reply_delay"`
}

type UploadConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

type Config struct {
	API    APIConfig    `yaml:"api"`
	Log    LogConfig    `yaml:"log"`
	State  StateConfig  `yaml:"state"`
	Stub   StubConfig   `yaml:"stub"`
	Upload UploadConfig `yaml:"upload"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, applies defaults, and validates
// the minimum needed to run. A missing file is fine when mock mode is on.
func LoadConfig(path string, mock bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err) && mock:
		// fixtures need no remote endpoint
	case os.IsNotExist(err):
		return nil, fmt.Errorf("read config: %w", err)
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// defaults
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.State.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		cfg.State.Dir = filepath.Join(home, ".docchat")
	}
	if cfg.Stub.Port <= 0 {
		cfg.Stub.Port = 8780
	}
	if cfg.Stub.TokenTTL <= 0 {
		cfg.Stub.TokenTTL = 24 * time.Hour
	}
	if cfg.Stub.ReplyDelay < 0 {
		cfg.Stub.ReplyDelay = 0
	}
	if cfg.Upload.MaxSizeMB <= 0 {
		cfg.Upload.MaxSizeMB = 50
	}

	// Minimal validation
	if !mock && cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url is required outside mock mode")
	}

	cfg.Runtime.Mock = mock
	return &cfg, nil
}
