// Package config loads the terminal's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when --config is not given.
const DefaultPath = "fote.yaml"

// DefaultPhrase is what transmit.exe sends when called without words.
const DefaultPhrase = "WE ARE OUR OWN ANCESTOR DEFUSE THE LENS DECIDE WHAT TO SEND"

// Config holds all terminal configuration.
type Config struct {
	Journal  JournalConfig  `yaml:"journal"`
	Logging  LoggingConfig  `yaml:"logging"`
	Transmit TransmitConfig `yaml:"transmit"`
	Grid     GridConfig     `yaml:"grid"`
}

// JournalConfig configures the command journal.
type JournalConfig struct {
	// Path of the sqlite database; ":memory:" keeps it in process.
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"` // Master toggle - false = no logging
	Level     string `yaml:"level"`      // debug, info, warn, error
	Format    string `yaml:"format"`     // json, console
	File      string `yaml:"file"`       // empty = stderr
}

// TransmitConfig configures transmit.exe's glyph layout.
type TransmitConfig struct {
	GlyphsPerRow  int    `yaml:"glyphs_per_row"`
	ColSpacing    int    `yaml:"col_spacing"`
	RowSpacing    int    `yaml:"row_spacing"`
	DefaultPhrase string `yaml:"default_phrase"`
	OutputPath    string `yaml:"output_path"`
}

// GridConfig configures gridview.exe.
type GridConfig struct {
	MeasureWindow int `yaml:"measure_window"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Journal: JournalConfig{Path: ":memory:"},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
			Format:    "json",
		},
		Transmit: TransmitConfig{
			GlyphsPerRow:  8,
			ColSpacing:    1,
			RowSpacing:    1,
			DefaultPhrase: DefaultPhrase,
			OutputPath:    "/out/transmitted.txt",
		},
		Grid: GridConfig{MeasureWindow: 10},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate rejects values the terminal cannot run with.
func (c *Config) Validate() error {
	if c.Journal.Path == "" {
		return fmt.Errorf("journal.path must not be empty (use \":memory:\" for an in-process journal)")
	}

	validLevel := false
	for _, l := range validLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, validLevels)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %s (valid: json, console)", c.Logging.Format)
	}

	if c.Transmit.GlyphsPerRow < 1 {
		return fmt.Errorf("transmit.glyphs_per_row must be at least 1, got %d", c.Transmit.GlyphsPerRow)
	}
	if c.Transmit.ColSpacing < 0 || c.Transmit.RowSpacing < 0 {
		return fmt.Errorf("transmit spacing must not be negative")
	}
	if c.Transmit.OutputPath == "" || c.Transmit.OutputPath[0] != '/' {
		return fmt.Errorf("transmit.output_path must be absolute, got %q", c.Transmit.OutputPath)
	}
	if c.Grid.MeasureWindow < 1 {
		return fmt.Errorf("grid.measure_window must be at least 1, got %d", c.Grid.MeasureWindow)
	}
	return nil
}
