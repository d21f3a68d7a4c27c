// Package config loads vatrack settings from .vatrack.yml with
// sensible defaults, merged under any CLI flag overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "30s" parse. The
// yaml package has no native duration support.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config captures CLI options sourced from the config file or flags.
type Config struct {
	// APIBaseURL is the test platform REST endpoint serving execution
	// and step snapshots.
	APIBaseURL string `yaml:"api_base_url"`

	// RequestTimeout bounds each snapshot request.
	RequestTimeout Duration `yaml:"request_timeout"`

	// JournalPath is the SQLite event journal used by record/replay.
	JournalPath string `yaml:"journal_path"`

	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"`
	Verbose  bool   `yaml:"verbose"`
}

const (
	// FormatText renders human readable output.
	FormatText = "text"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"

	// FileName is the config file looked up in the working directory.
	FileName = ".vatrack.yml"
)

// Default returns the baseline configuration used when no flags or
// config file specify values.
func Default() Config {
	return Config{
		APIBaseURL:     "http://localhost:8080/api/v1",
		RequestTimeout: Duration(10 * time.Second),
		JournalPath:    "vatrack.db",
		LogLevel:       "info",
		Format:         FormatText,
	}
}

// Load reads .vatrack.yml from dir when present. Missing files are
// ignored; a malformed file is an error, never a silent fallback.
func Load(dir string) (Config, error) {
	cfg := Default()
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func merge(base, override Config) Config {
	out := base

	if override.APIBaseURL != "" {
		out.APIBaseURL = override.APIBaseURL
	}
	if override.RequestTimeout > 0 {
		out.RequestTimeout = override.RequestTimeout
	}
	if override.JournalPath != "" {
		out.JournalPath = override.JournalPath
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.Verbose {
		out.Verbose = true
	}

	return out
}

// Validate checks values that would otherwise fail obscurely later.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url %q is not an absolute URL", c.APIBaseURL)
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("format %q is not one of %q, %q", c.Format, FormatText, FormatJSON)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout.Std())
	}
	return nil
}
