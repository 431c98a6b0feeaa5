// Package config loads the mazepath server configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"mazepath"
)

// Config is the YAML configuration of cmd/mazepath.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// Level is a builtin level name or a path to a level file.
	Level string `yaml:"level"`
	// StepSize is the bezier sampling step for every path.
	StepSize float64 `yaml:"step_size"`
	// Spacing is the distance between points served for rendering.
	Spacing float64 `yaml:"spacing"`
	// Seed seeds random node and path picks. 0 seeds from the clock.
	Seed      uint64 `yaml:"seed"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:    ":8080",
		Level:     "one",
		StepSize:  mazepath.DefaultStepSize,
		Spacing:   0.25,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads the YAML configuration file using strict parsing. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("YAML syntax error in config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects values the graph cannot be built with.
func (c Config) Validate() error {
	if !(c.StepSize > 0) {
		return fmt.Errorf("step_size %v: %w", c.StepSize, mazepath.ErrInvalidArgument)
	}
	if !(c.Spacing > 0) {
		return fmt.Errorf("spacing %v: %w", c.Spacing, mazepath.ErrInvalidArgument)
	}
	if c.Level == "" {
		return fmt.Errorf("level is empty: %w", mazepath.ErrInvalidArgument)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: %w", c.LogFormat, mazepath.ErrInvalidArgument)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, mazepath.ErrInvalidArgument)
	}
	return level, nil
}

// Logger builds the structured logger described by the configuration.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
