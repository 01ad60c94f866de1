// Package config provides layered configuration loading for the API server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable that overrides a config key.
// ACCREDITRACK_SERVER_PORT maps to server.port.
const EnvPrefix = "ACCREDITRACK_"

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"accreditrack.yaml",
	"accreditrack.yml",
}

// EnvironmentProduction is the environment name that disables insecure defaults.
const EnvironmentProduction = "production"

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Upload    UploadConfig    `koanf:"upload"`
	Directory DirectoryConfig `koanf:"directory"`
	Database  DatabaseConfig  `koanf:"database"`
	Workflow  WorkflowConfig  `koanf:"workflow"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port         int           `koanf:"port"`
	Environment  string        `koanf:"environment"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	CORSOrigins  []string      `koanf:"cors_origins"`
}

// UploadConfig controls where artifact files go and how large they may be.
type UploadConfig struct {
	Dir      string `koanf:"dir"`
	MaxBytes int64  `koanf:"max_bytes"`
}

// DirectoryConfig points at the user/cycle directory file.
// An empty path selects the built-in demo directory.
type DirectoryConfig struct {
	Path string `koanf:"path"`
}

// DatabaseConfig selects PostgreSQL-backed stores when URL is set.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// WorkflowConfig tunes task workflow policy.
type WorkflowConfig struct {
	// StrictResubmission rejects submissions for tasks that are already approved.
	StrictResubmission bool `koanf:"strict_resubmission"`
	// SeedDemoData preloads the demo tasks into in-memory stores.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// RateLimitConfig throttles login attempts per client IP.
type RateLimitConfig struct {
	LoginRequests int           `koanf:"login_requests"`
	LoginWindow   time.Duration `koanf:"login_window"`
}

// LoggingConfig is passed through to the logging package.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         3000,
			Environment:  "development",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
			CORSOrigins:  []string{"*"},
		},
		Upload: UploadConfig{
			Dir:      "uploads/artifacts",
			MaxBytes: 10 << 20,
		},
		Workflow: WorkflowConfig{
			SeedDemoData: true,
		},
		RateLimit: RateLimitConfig{
			LoginRequests: 10,
			LoginWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// ACCREDITRACK_* environment variables, in increasing priority.
// If path is empty, CONFIG_PATH and DefaultConfigPaths are tried.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitListValue(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: server.port out of range: %d", c.Server.Port)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("config error: upload.max_bytes must be positive")
	}
	if c.Upload.Dir == "" {
		return fmt.Errorf("config error: upload.dir is required")
	}
	if c.RateLimit.LoginRequests < 0 {
		return fmt.Errorf("config error: rate_limit.login_requests must be non-negative")
	}
	if c.RateLimit.LoginRequests > 0 && c.RateLimit.LoginWindow <= 0 {
		return fmt.Errorf("config error: rate_limit.login_window must be positive")
	}
	return nil
}

// IsProduction reports whether insecure defaults must be refused.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, EnvironmentProduction)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sections are the top-level keys; some contain underscores, so the env
// name cannot simply be split on "_".
var sections = []string{"server", "upload", "directory", "database", "workflow", "rate_limit", "logging"}

// envKey maps ACCREDITRACK_RATE_LIMIT_LOGIN_WINDOW to rate_limit.login_window.
// Unknown sections return "" so koanf skips them.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}

// splitListValue turns a comma-separated env string into a list.
func splitListValue(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}
