// Package config provides the configuration system for scour.
// It defines a single Config structure describing one standardisation run,
// loaded from a YAML or JSON file with environment variable substitution.
//
// Example usage:
//
//	cfg := config.Default()
//	if err := config.Load("scour.yaml", cfg); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Config is the configuration for a single standardisation run.
type Config struct {
	// Name identifies the run in logs and metrics
	Name string `yaml:"name" json:"name"`

	// Input describes the file to standardise
	Input FileConfig `yaml:"input" json:"input"`

	// Output describes where the standardised file is written
	Output FileConfig `yaml:"output" json:"output"`

	// Standardise holds the cleansing rules
	Standardise StandardiseConfig `yaml:"standardise" json:"standardise"`

	// Logging configures the process-wide logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics configures the prometheus collector
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// FileConfig identifies a columnar file and its format.
type FileConfig struct {
	// Path is the file location on disk
	Path string `yaml:"path" json:"path"`
	// Format is "parquet" or "csv"; inferred from the extension when empty
	Format string `yaml:"format" json:"format"`
}

// StandardiseConfig holds the cleansing rules applied to the dataset.
type StandardiseConfig struct {
	// NullValues are literal tokens unified to null before processing
	NullValues []string `yaml:"null_values" json:"null_values"`
	// TimestampColumns are coerced to timestamps, failed parses become null
	TimestampColumns []string `yaml:"timestamp_columns" json:"timestamp_columns"`
	// SourceTag is stamped into the data_source provenance column
	SourceTag string `yaml:"source_tag" json:"source_tag"`
	// VerifyOutput re-reads the written file and logs its shape
	VerifyOutput bool `yaml:"verify_output" json:"verify_output"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level sets logging verbosity (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Encoding selects json or console output
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored, stack-traced output
	Development bool `yaml:"development" json:"development"`
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	// Enabled activates the prometheus collector
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Default returns a Config with the stock cleansing rules. The null token
// set and source tag match the values the tool has always shipped with.
func Default() *Config {
	return &Config{
		Name: "standardise",
		Input: FileConfig{
			Path: "files/input.parquet",
		},
		Output: FileConfig{
			Path: "files/output.parquet",
		},
		Standardise: StandardiseConfig{
			NullValues:       []string{"NULL", "N/A", ""},
			TimestampColumns: []string{"date_column"},
			SourceTag:        "UNSPECIFIED",
			VerifyOutput:     true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate validates the configuration for correctness.
// It checks required fields and resolves formats from file extensions.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	if c.Input.Format == "" {
		c.Input.Format = formatFromPath(c.Input.Path)
	}
	if c.Output.Format == "" {
		c.Output.Format = formatFromPath(c.Output.Path)
	}
	for _, f := range []string{c.Input.Format, c.Output.Format} {
		switch f {
		case "parquet", "csv":
		default:
			return fmt.Errorf("unsupported format %q (want parquet or csv)", f)
		}
	}
	if c.Standardise.SourceTag == "" {
		return fmt.Errorf("standardise.source_tag is required")
	}
	return nil
}

// formatFromPath infers a format from the file extension. Compression
// suffixes are peeled off first so "data.csv.gz" resolves to csv.
func formatFromPath(path string) string {
	ext := filepath.Ext(path)
	if ext == ".gz" || ext == ".zst" {
		ext = filepath.Ext(strings.TrimSuffix(path, ext))
	}
	return strings.TrimPrefix(ext, ".")
}
