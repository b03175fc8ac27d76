// Package config loads packetbatch settings from defaults, an optional YAML
// file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/packetbatch/internal/engine/batch"
	"github.com/rshade/packetbatch/internal/logging"
)

// Environment variables recognised by Load.
const (
	EnvHome      = "PACKETBATCH_HOME"
	EnvInput     = "PACKETBATCH_INPUT"
	EnvBatchSize = "PACKETBATCH_BATCH_SIZE"
	EnvLogLevel  = "PACKETBATCH_LOG_LEVEL"
	EnvLogFormat = "PACKETBATCH_LOG_FORMAT"
)

// DefaultInputFile is read when no input path is given.
const DefaultInputFile = "input.txt"

// configFileName is the file looked up inside the config directory.
const configFileName = "config.yaml"

// ErrInvalidConfig wraps every validation and parse failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective packetbatch configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig selects the input source.
type InputConfig struct {
	File string `yaml:"file"`
}

// BatchConfig controls batching.
type BatchConfig struct {
	Size int `yaml:"size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{File: DefaultInputFile},
		Batch: BatchConfig{Size: batch.DefaultBatchSize},
		Logging: LoggingConfig{
			Level:  logging.DefaultLevel,
			Format: logging.FormatAuto,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path, then
// environment overrides. An empty path means DefaultPath(); a missing file at
// the default path is not an error, a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeFile(path, explicit); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv builds the configuration from defaults and environment overrides
// only, without reading any config file.
func LoadEnv() (*Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns $PACKETBATCH_HOME/config.yaml, or
// ~/.packetbatch/config.yaml when PACKETBATCH_HOME is unset.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Dir returns the packetbatch configuration directory.
func Dir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(userHome, ".packetbatch"), nil
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("%w: reading config file %s: %w", ErrInvalidConfig, path, err)
	}

	// Fields absent from the file keep their defaults.
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parsing config file %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	if v, ok := lookupEnv(EnvInput); ok && v != "" {
		c.Input.File = v
	}
	if v, ok := lookupEnv(EnvBatchSize); ok && v != "" {
		size, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvBatchSize, v)
		}
		c.Batch.Size = size
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	return nil
}

// Validate checks the configuration for semantic correctness.
func (c *Config) Validate() error {
	if c.Batch.Size < batch.MinBatchSize {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidConfig, batch.ErrInvalidBatchSize, c.Batch.Size)
	}
	if strings.TrimSpace(c.Input.File) == "" {
		return fmt.Errorf("%w: input file cannot be empty", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("%w: unknown log format %q (want console, json or auto)", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
