// Package config provides configuration types and defaults for adminsort.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omenapps/adminsort/internal/log"
	"github.com/omenapps/adminsort/internal/reorder"
	"github.com/omenapps/adminsort/internal/tracing"
)

// ReorderConfig holds the ordering configuration applied to the admin
// index. Apps is kept untyped here: entries are strings or mappings, and
// reorder.ParseEntries validates them at first use.
type ReorderConfig struct {
	// Apps is the ordered entry list. Required; an empty list is a
	// configuration error surfaced when the transform first runs.
	Apps []any `mapstructure:"apps"`

	// ValidURLNames lists the admin route names the gate accepts.
	// Default: ["index", "app_list"]
	ValidURLNames []string `mapstructure:"valid_url_names"`

	// AppendUnrepresented appends a synthetic app collecting catalog
	// models the explicit config never referenced. Default: false
	AppendUnrepresented bool `mapstructure:"append_unrepresented"`
}

// ServerConfig holds the demo admin server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds debug logging settings.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Level   string `mapstructure:"level"` // "debug" (default), "info", "warn", "error"
}

// TracingConfig holds trace export settings.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/adminsort/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Config holds all configuration options for adminsort.
type Config struct {
	Reorder ReorderConfig `mapstructure:"reorder"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// TracerConfig converts the settings-level tracing section into the
// tracing subsystem's config.
func (c Config) TracerConfig() tracing.Config {
	return tracing.Config{
		Enabled:      c.Tracing.Enabled,
		Exporter:     c.Tracing.Exporter,
		FilePath:     c.Tracing.FilePath,
		OTLPEndpoint: c.Tracing.OTLPEndpoint,
		SampleRate:   c.Tracing.SampleRate,
		ServiceName:  "adminsort",
	}
}

// DefaultValidURLNames returns the route names the gate accepts when none
// are configured.
func DefaultValidURLNames() []string {
	return []string{"index", "app_list"}
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/adminsort/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "adminsort", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Reorder: ReorderConfig{
			ValidURLNames:       DefaultValidURLNames(),
			AppendUnrepresented: false,
		},
		Server: ServerConfig{
			Addr: ":8084",
		},
		Log: LogConfig{
			Enabled: false,
			Path:    "adminsort.log",
			Level:   "debug",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// ValidateReorder checks the reorder section for errors. It parses the
// entry list the same way the transform does, so `adminsort check`
// reports exactly what a request would hit.
func ValidateReorder(cfg ReorderConfig) error {
	if _, err := reorder.ParseEntries(cfg.Apps); err != nil {
		return err
	}
	for i, name := range cfg.ValidURLNames {
		if name == "" {
			return fmt.Errorf("reorder.valid_url_names[%d]: name cannot be empty", i)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(cfg TracingConfig) error {
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}

	if cfg.Exporter != "" {
		switch cfg.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", cfg.Exporter)
		}
	}

	if cfg.Enabled {
		if cfg.Exporter == "file" && cfg.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if cfg.Exporter == "otlp" && cfg.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// ValidateLog checks log configuration for errors.
func ValidateLog(cfg LogConfig) error {
	switch cfg.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", cfg.Level)
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# adminsort Configuration

# Ordering applied to the admin index app list. Entries are processed in
# order; apps not referenced here are dropped from the page.
reorder:
  apps:
    # Keep an app as-is, in this position:
    - blog

    # Rename an app:
    # - app: auth
    #   label: Authorization

    # Filter, reorder, and relabel an app's models. Selectors are
    # qualified "app_label.ObjectName" references, a {model, label}
    # mapping, or an "app_label.*" wildcard (expands alphabetically):
    # - app: auth
    #   models:
    #     - auth.User
    #     - model: auth.Group
    #       label: Groups
    #     - "auth.*"

  # Admin route names the middleware applies to (default shown)
  # valid_url_names: [index, app_list]

  # Append one synthetic "Other" app collecting every model the entries
  # above never referenced (default: false)
  # append_unrepresented: true

# Demo admin server
server:
  addr: ":8084"

# Debug logging
log:
  enabled: false
  path: adminsort.log
  # level: debug

# Distributed tracing for transformed requests
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/adminsort/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
