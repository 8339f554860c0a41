// Package config loads wlctl settings from YAML, falling back to defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the wlctl configuration file
type Config struct {
	Log struct {
		// Level is one of DEBUG, INFO, WARN, ERROR
		Level      string `yaml:"level"`
		JSON       bool   `yaml:"json"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"maxSizeMB"`
		MaxBackups int    `yaml:"maxBackups"`
		MaxAgeDays int    `yaml:"maxAgeDays"`
	} `yaml:"log"`

	Render struct {
		// Format is png, jpeg, tiff or bmp
		Format string `yaml:"format"`
		// Workers bounds ingest/map parallelism; 0 uses every CPU
		Workers int `yaml:"workers"`
		// CorrectAspect resamples output rows by the pixel aspect ratio
		CorrectAspect bool `yaml:"correctAspect"`
		JPEGQuality   int  `yaml:"jpegQuality"`
	} `yaml:"render"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.Log.Level = "INFO"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28

	cfg.Render.Format = "png"
	cfg.Render.CorrectAspect = true
	cfg.Render.JPEGQuality = 90
	return cfg
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// SlogLevel parses Log.Level, defaulting to INFO.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
