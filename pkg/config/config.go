// Package config defines the tool configuration: directory locations, run
// options and logging. Values come from an optional YAML file; CLI flags
// and positional arguments override file values.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/driftcheck/driftcheck/pkg/telemetry"
)

// Default directory locations used when neither the config file nor the
// command line supplies them.
const (
	DefaultObjectsDir = "./objects"
	DefaultSchemasDir = "./schemas"
)

// Config is the harness configuration.
type Config struct {
	// ObjectsDir is the directory of exported object files.
	ObjectsDir string `yaml:"objects_dir" validate:"required"`

	// SchemasDir is the directory of schema documents.
	SchemasDir string `yaml:"schemas_dir" validate:"required"`

	// HistoryPath is the optional SQLite database for run history.
	HistoryPath string `yaml:"history_path"`

	// FailUntested makes a registered kind with zero objects a run failure.
	FailUntested bool `yaml:"fail_untested"`

	// Logging configures the structured logger.
	Logging telemetry.LoggingConfig `yaml:"logging"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		ObjectsDir: DefaultObjectsDir,
		SchemasDir: DefaultSchemasDir,
		Logging:    telemetry.DefaultLoggingConfig(),
	}
}

// Load reads the configuration from a YAML file, applying defaults for
// omitted fields. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for structural errors.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}
