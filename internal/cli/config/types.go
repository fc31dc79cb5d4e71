// Package config provides configuration management for the trigdata CLI.
package config

import (
	"github.com/leapstack-labs/trigdata/internal/engine"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "trigdata.yaml"
	ConfigFileNameAlt = "trigdata.yml"
)

// Default configuration values.
const (
	DefaultPackagesDir = "packages"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultJobs        = 4
)

// Config holds all CLI configuration options.
type Config struct {
	PreserveUnmodeled    bool   `koanf:"preserve_unmodeled"`
	PreserveUnrecognized bool   `koanf:"preserve_unrecognized"`
	PackagesDir          string `koanf:"packages_dir"`
	LogLevel             string `koanf:"log_level"`
	LogFormat            string `koanf:"log_format"`
	OutputFormat         string `koanf:"output"`
	Verbose              bool   `koanf:"verbose"`
	Jobs                 int    `koanf:"jobs"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		PreserveUnmodeled: true,
		PackagesDir:       DefaultPackagesDir,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		OutputFormat:      DefaultOutput,
		Jobs:              DefaultJobs,
	}
}

// defaults returns the default values keyed as in the config file.
func defaults() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"preserve_unmodeled":    d.PreserveUnmodeled,
		"preserve_unrecognized": d.PreserveUnrecognized,
		"packages_dir":          d.PackagesDir,
		"log_level":             d.LogLevel,
		"log_format":            d.LogFormat,
		"output":                d.OutputFormat,
		"verbose":               d.Verbose,
		"jobs":                  d.Jobs,
	}
}

// EngineConfig translates the configuration into an engine configuration.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		PreserveUnmodeled:    c.PreserveUnmodeled,
		PreserveUnrecognized: c.PreserveUnrecognized,
	}
}
