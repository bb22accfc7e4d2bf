// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/smileynet/rolodex/internal/logging"
)

// MaxIndent is the largest accepted file.indent value.
const MaxIndent = 8

// Config holds all rolodex configuration.
type Config struct {
	File File `yaml:"file"`
	Log  Log  `yaml:"log"`
}

// File holds contact file settings.
type File struct {
	Default string `yaml:"default"` // Used when a filename prompt is left empty.
	Indent  int    `yaml:"indent"`  // Spaces per indent level in saved files; 0 is compact.
}

// Log holds diagnostic logging settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		File: File{
			Default: "contacts.json",
			Indent:  4,
		},
		Log: Log{
			Level: string(logging.LevelWarn),
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.File.Default == "" {
		return errors.New("config: file.default cannot be empty")
	}
	if c.File.Indent < 0 || c.File.Indent > MaxIndent {
		return fmt.Errorf("config: file.indent must be between 0 and %d, got %d", MaxIndent, c.File.Indent)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to warn when invalid.
// Call Validate first to surface bad values.
func (c *Config) LogLevel() logging.Level {
	l, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return logging.LevelWarn
	}
	return l
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ROLODEX_FILE, ROLODEX_INDENT, ROLODEX_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ROLODEX_FILE"); v != "" {
		c.File.Default = v
	}
	if v := os.Getenv("ROLODEX_INDENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid ROLODEX_INDENT %q: %w", v, err)
		}
		c.File.Indent = n
	}
	if v := os.Getenv("ROLODEX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	File *rawFile `yaml:"file"`
	Log  *rawLog  `yaml:"log"`
}

type rawFile struct {
	Default *string `yaml:"default"`
	Indent  *int    `yaml:"indent"`
}

type rawLog struct {
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.File != nil {
		if layer.File.Default != nil {
			c.File.Default = *layer.File.Default
		}
		if layer.File.Indent != nil {
			c.File.Indent = *layer.File.Indent
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
	}
}
