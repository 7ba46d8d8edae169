// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// GeneratorConfig points at the remote schedule-generation service. The
// solver runs there; this service only submits parameters and polls.
type GeneratorConfig struct {
	BaseURL               string `yaml:"base_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	PollIntervalSeconds   int    `yaml:"poll_interval_seconds"`
	APIKey                string `yaml:"-"` // Loaded from environment
}

// RequestTimeout is the per-request deadline for generator calls.
func (g GeneratorConfig) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutSeconds) * time.Second
}

// PollInterval is how often in-flight generation jobs are polled.
func (g GeneratorConfig) PollInterval() time.Duration {
	return time.Duration(g.PollIntervalSeconds) * time.Second
}

type Config struct {
	App struct {
		Name                   string `yaml:"name"`
		Environment            string `yaml:"environment"`
		Port                   int    `yaml:"port"`
		BaseURL                string `yaml:"base_url"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Generator GeneratorConfig `yaml:"generator"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.Generator.APIKey = os.Getenv("GENERATOR_API_KEY")

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ShutdownTimeout is how long in-flight requests get to finish on shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.App.ShutdownTimeoutSeconds) * time.Second
}

func applyDefaults(cfg *Config) {
	if cfg.App.ShutdownTimeoutSeconds == 0 {
		cfg.App.ShutdownTimeoutSeconds = 30
	}
	if cfg.Generator.RequestTimeoutSeconds == 0 {
		cfg.Generator.RequestTimeoutSeconds = 10
	}
	if cfg.Generator.PollIntervalSeconds == 0 {
		cfg.Generator.PollIntervalSeconds = 30
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Generator.BaseURL != "" && c.Generator.PollIntervalSeconds < 1 {
		return fmt.Errorf("generator poll interval must be at least one second")
	}

	return nil
}
