// Package config provides configuration management for tabular operations
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/paveg/tabular/internal/io"
	"github.com/paveg/tabular/internal/table"
	"gopkg.in/yaml.v3"
)

// Config represents the configuration shared by the CLI and library callers
type Config struct {
	// CSV Configuration
	Delimiter  string `json:"delimiter" yaml:"delimiter"`     // Single-character field delimiter
	WriteIndex *bool  `json:"write_index" yaml:"write_index"` // Prepend a row-index column on save (nil = default)
	DropIndex  *bool  `json:"drop_index" yaml:"drop_index"`   // Drop a leading unnamed column on load (nil = default)

	// Lookup Configuration
	FoldCase *bool `json:"fold_case" yaml:"fold_case"` // Case-insensitive key matching (nil = default)

	// Logging Configuration
	LogLevel string `json:"log_level" yaml:"log_level"` // debug, info, warn or error
}

// Default configuration values
const (
	DefaultDelimiter = ","
	DefaultLogLevel  = "warn"
)

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		Delimiter:  DefaultDelimiter,
		WriteIndex: boolPtr(true),
		DropIndex:  boolPtr(true),
		FoldCase:   boolPtr(true),
		LogLevel:   DefaultLogLevel,
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("Delimiter must be a single character, got %q", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("Delimiter %q is not allowed", c.Delimiter)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.Delimiter == "" {
		c.Delimiter = defaults.Delimiter
	}
	if c.WriteIndex == nil {
		c.WriteIndex = defaults.WriteIndex
	}
	if c.DropIndex == nil {
		c.DropIndex = defaults.DropIndex
	}
	if c.FoldCase == nil {
		c.FoldCase = defaults.FoldCase
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}

	return c
}

// Level parses LogLevel into a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LogLevel must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return level, nil
}

// CSVOptions converts the configuration into reader/writer options.
func (c Config) CSVOptions() io.CSVOptions {
	c = c.WithDefaults()
	options := io.DefaultCSVOptions()
	options.Delimiter, _ = utf8.DecodeRuneInString(c.Delimiter)
	options.WriteIndex = *c.WriteIndex
	options.DropIndex = *c.DropIndex
	return options
}

// LookupOptions converts the configuration into key-matching options.
func (c Config) LookupOptions() table.LookupOptions {
	c = c.WithDefaults()
	return table.LookupOptions{FoldCase: *c.FoldCase}
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a file (supports JSON and YAML)
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		config, err := LoadFromJSON(data)
		if err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", filename, err)
		}
		return config, nil
	case ".yaml", ".yml":
		var config Config
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
		}
		return config.WithDefaults(), nil
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}
}

// LoadFromEnv overlays TABULAR_* environment variables on base. Unparseable
// values are ignored.
func LoadFromEnv(base Config) Config {
	config := base.WithDefaults()

	if val := os.Getenv("TABULAR_DELIMITER"); val != "" {
		config.Delimiter = val
	}

	if val := os.Getenv("TABULAR_WRITE_INDEX"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.WriteIndex = boolPtr(parsed)
		}
	}

	if val := os.Getenv("TABULAR_DROP_INDEX"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.DropIndex = boolPtr(parsed)
		}
	}

	if val := os.Getenv("TABULAR_FOLD_CASE"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.FoldCase = boolPtr(parsed)
		}
	}

	if val := os.Getenv("TABULAR_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// Load resolves the effective configuration: defaults, then the optional
// file at path, then environment overrides. The result is validated.
func Load(path string) (Config, error) {
	config := NewConfig()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return Config{}, err
		}
		config = loaded
	}

	config = LoadFromEnv(config)
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
