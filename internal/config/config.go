// Package config loads and saves the YAML settings file: log level, worker count, per-operator
// parameter overrides and the structuring element chosen in the editor.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"filterlab/internal/algorithms"
	"filterlab/internal/kernel"
	"filterlab/internal/logger"
	"filterlab/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the user config directory when no path is given.
const DefaultFileName = "filterlab.yaml"

// maxWorkers bounds the worker setting to something a desktop can schedule.
const maxWorkers = 256

type Config struct {
	LogLevel           string                           `yaml:"log_level"`
	Workers            int                              `yaml:"workers"`
	Operators          map[string]algorithms.Parameters `yaml:"operators,omitempty"`
	StructuringElement [][]int                          `yaml:"structuring_element"`
}

func Default() *Config {
	return &Config{
		LogLevel:           "info",
		Workers:            0,
		Operators:          map[string]algorithms.Parameters{},
		StructuringElement: kernel.Cross().Matrix(),
	}
}

// DefaultPath is <user config dir>/filterlab/filterlab.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "filterlab", DefaultFileName), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Operators == nil {
		cfg.Operators = map[string]algorithms.Parameters{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return models.NewValidationError("log_level", c.LogLevel, err.Error())
	}
	if c.Workers < 0 || c.Workers > maxWorkers {
		return models.NewValidationError("workers", c.Workers, fmt.Sprintf("must be between 0 and %d", maxWorkers))
	}
	if _, err := c.StructuringElementValue(); err != nil {
		return err
	}

	// Every override must name a registered operator and build with its parameters.
	manager := algorithms.NewManager(nil)
	for name, params := range c.Operators {
		if _, err := manager.Build(name, params); err != nil {
			return models.NewValidationError("operators."+name, params, err.Error())
		}
	}
	return nil
}

// StructuringElementValue parses the stored 0/1 grid. An empty grid yields the default cross.
func (c *Config) StructuringElementValue() (*kernel.StructuringElement, error) {
	if len(c.StructuringElement) == 0 {
		return kernel.Cross(), nil
	}
	return kernel.FromMatrix(c.StructuringElement)
}

func (c *Config) SetStructuringElement(se *kernel.StructuringElement) error {
	if se == nil {
		return models.NewValidationError("structuring_element", nil, "structuring element is required")
	}
	c.StructuringElement = se.Matrix()
	return nil
}
