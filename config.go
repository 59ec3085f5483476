package vcedit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the editor settings.
type Config struct {
	// Delay is how long PointerUp waits before reading the selection.
	Delay time.Duration
	// Buttons lists the toolbar buttons that receive state updates.
	Buttons []string
}

// knownButtons are the button names the toolbar understands.
var knownButtons = []string{
	"b", "i", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "a", "cancel",
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Buttons: slices.Clone(knownButtons),
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("%w: negative delay %s", ErrInvalidConfig, c.Delay)
	}
	for _, b := range c.Buttons {
		if !slices.Contains(knownButtons, b) {
			return fmt.Errorf("%w: unknown button %q", ErrInvalidConfig, b)
		}
	}
	return nil
}

// fileConfig is the on-disk shape. Absent keys keep their defaults.
type fileConfig struct {
	Delay   *int64   `toml:"delay" yaml:"delay"` // milliseconds
	Buttons []string `toml:"buttons" yaml:"buttons"`
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadConfig reads a TOML or YAML file, chosen by extension. A missing file
// yields the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	cfg, err := ParseConfig(data, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfig decodes data in the given format ("toml", "yaml" or "yml") on
// top of the defaults and validates the result.
func ParseConfig(data []byte, format string) (Config, error) {
	var fc fileConfig
	var err error
	switch format {
	case "toml":
		err = toml.Unmarshal(data, &fc)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, format)
	}
	if err != nil {
		return Config{}, &ParseError{Path: "<" + format + ">", Message: err.Error(), Err: err}
	}

	cfg := DefaultConfig()
	if fc.Delay != nil {
		cfg.Delay = time.Duration(*fc.Delay) * time.Millisecond
	}
	if fc.Buttons != nil {
		cfg.Buttons = fc.Buttons
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
