package model

import (
	"fmt"
	"time"
)

const (
	DefaultMarker = "#| content:"
	DefaultTag    = "remove-cell"
)

// Config holds every tunable of a check run
type Config struct {
	Check       CheckConfig       `yaml:"check" mapstructure:"check"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
}

// CheckConfig configures the convention being enforced
type CheckConfig struct {
	Marker string `yaml:"marker" mapstructure:"marker"` // Line prefix that declares a content reference
	Tag    string `yaml:"tag" mapstructure:"tag"`       // Tag required on every referencing cell
}

// OutputConfig configures how results are printed
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, json, yaml
	Color   string `yaml:"color" mapstructure:"color"`   // auto, always, never
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ConcurrencyConfig configures the batch runner
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// CacheConfig configures the parsed-notebook cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		Check: CheckConfig{
			Marker: DefaultMarker,
			Tag:    DefaultTag,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate rejects values no component can act on
func (c *Config) Validate() error {
	if c.Check.Marker == "" {
		return fmt.Errorf("check.marker must not be empty")
	}
	if c.Check.Tag == "" {
		return fmt.Errorf("check.tag must not be empty")
	}

	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output.format %q: want text, json or yaml", c.Output.Format)
	}

	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color %q: want auto, always or never", c.Output.Color)
	}

	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("concurrency.workers must be at least 1, got %d", c.Concurrency.Workers)
	}

	return nil
}
