package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdfmerge/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// The file list itself is never stored here; every session starts empty.
type Config struct {
	Output struct {
		DefaultName string `yaml:"default_name"` // Suggested name in the save dialog
		Directory   string `yaml:"directory"`    // Starting directory for open/save dialogs
	} `yaml:"output"`
	PDF struct {
		Validation string `yaml:"validation"` // relaxed or strict
		Preflight  bool   `yaml:"preflight"`  // Validate and count pages before merging
	} `yaml:"pdf"`
	GUI struct {
		Width  float32 `yaml:"width"`  // Initial window width
		Height float32 `yaml:"height"` // Initial window height
		Theme  string  `yaml:"theme"`  // system, light or dark
	} `yaml:"gui"`
	Watch struct {
		Enabled bool `yaml:"enabled"` // Flag queued files that disappear from disk
	} `yaml:"watch"`
	Log struct {
		Debug bool   `yaml:"debug"` // Enable debug output
		JSON  bool   `yaml:"json"`  // Emit JSON lines
		File  string `yaml:"file"`  // Also append to this file
	} `yaml:"log"`
}

// DefaultPath returns ~/.config/pdfmerge/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pdfmerge", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Unmarshal over the defaults so unset keys keep their default value
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Output.DefaultName = "merged.pdf"
	cfg.Output.Directory = ""

	cfg.PDF.Validation = "relaxed"
	cfg.PDF.Preflight = true

	cfg.GUI.Width = 520
	cfg.GUI.Height = 420
	cfg.GUI.Theme = "system"

	cfg.Watch.Enabled = true

	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if c.Output.DefaultName == "" {
		return errors.NewConfigError("default name is required", "output.default_name", errors.InvalidConfig, nil)
	}
	if strings.ContainsAny(c.Output.DefaultName, `/\`) {
		return errors.NewConfigError("default name must be a file name", "output.default_name", errors.InvalidConfig, nil)
	}

	if c.Output.Directory != "" {
		info, err := os.Stat(c.Output.Directory)
		if err != nil {
			return errors.NewConfigError("error accessing output directory", "output.directory", errors.InvalidConfig, err)
		}
		if !info.IsDir() {
			return errors.NewConfigError("output directory is not a directory", "output.directory", errors.InvalidConfig, nil)
		}
	}

	validModes := map[string]bool{"relaxed": true, "strict": true}
	if !validModes[c.PDF.Validation] {
		return errors.NewConfigError("invalid validation mode "+c.PDF.Validation, "pdf.validation", errors.InvalidConfig, nil)
	}

	if c.GUI.Width < 200 || c.GUI.Height < 150 {
		return errors.NewConfigError("window must be at least 200x150", "gui", errors.InvalidConfig, nil)
	}

	validThemes := map[string]bool{"system": true, "light": true, "dark": true}
	if !validThemes[c.GUI.Theme] {
		return errors.NewConfigError("invalid theme "+c.GUI.Theme, "gui.theme", errors.InvalidConfig, nil)
	}

	return nil
}

// OutputName returns the configured default name with a .pdf extension.
func (c *Config) OutputName() string {
	name := c.Output.DefaultName
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Watch.Enabled = false
	cfg.PDF.Preflight = true
	return cfg
}
