// Package config loads the tool configuration file (transpileconf.yaml).
//
// The file is optional. Every field has a default, environment variables written
// as ${VAR} are expanded before parsing, and command-line flags override the
// loaded values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/transpileconf/internal/foundation/errors"
	"git.home.luguber.info/inful/transpileconf/internal/logfields"
	"git.home.luguber.info/inful/transpileconf/internal/value"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "transpileconf.yaml"

// CurrentVersion is the only configuration version understood.
const CurrentVersion = "1.0"

// Config is the tool configuration.
type Config struct {
	Version    string            `yaml:"version"`
	Site       SiteConfig        `yaml:"site"`
	Sources    SourcesConfig     `yaml:"sources"`
	Plugins    PluginsConfig     `yaml:"plugins"`
	Extensions []ExtensionConfig `yaml:"extensions,omitempty"`
	Output     OutputConfig      `yaml:"output"`
	Watch      WatchConfig       `yaml:"watch"`
	Metrics    MetricsConfig     `yaml:"metrics"`
}

// SiteConfig describes the site being resolved.
type SiteConfig struct {
	Directory string   `yaml:"directory"`  // Site root; empty means detect from the working directory
	Stage     string   `yaml:"stage"`      // Build stage
	Browsers  []string `yaml:"browsers"`   // Browser targets passed to the default preset
	NoResolve bool     `yaml:"no_resolve"` // Leave plugin and preset names unresolved
}

// SourcesConfig names the override files the locator looks for.
type SourcesConfig struct {
	Script          string `yaml:"script"`
	RCFile          string `yaml:"rc_file"`
	Manifest        string `yaml:"manifest"`
	ManifestSection string `yaml:"manifest_section"`
}

// PluginsConfig names the plugins injected ahead of the configured ones.
type PluginsConfig struct {
	HotReload  string `yaml:"hot_reload"`
	QueryStrip string `yaml:"query_strip"`
}

// ExtensionConfig declares a static extension that contributes Fragment on
// every resolution.
type ExtensionConfig struct {
	Name        string      `yaml:"name"`
	Version     string      `yaml:"version"`
	Description string      `yaml:"description,omitempty"`
	Fragment    value.Value `yaml:"fragment"`
}

// OutputConfig controls how resolved configuration is printed.
type OutputConfig struct {
	Format OutputFormat `yaml:"format"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig controls the Prometheus endpoint served by the watch command.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Load reads path, or DefaultFile when path is empty. A missing DefaultFile is
// not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Finalize(&Config{})
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.NewError(ferrors.CategoryNotFound, "configuration file not found: "+path).
				WithContext(logfields.KeyPath, path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext(logfields.KeyPath, path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext(logfields.KeyPath, path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data, expanding ${VAR} references first, then finalizes the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse configuration").
			WithHint("check the YAML syntax and field names").
			Build()
	}
	return Finalize(&cfg)
}

// Finalize normalizes cfg, fills unset fields with defaults and validates it.
func Finalize(cfg *Config) (*Config, error) {
	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, ferrors.ValidationError(fmt.Sprintf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)).
			Build()
	}
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	if err := applyDefaults(cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to apply defaults").Build()
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists: " + path).
			WithHint("use --force to overwrite").
			Build()
	}

	example := Default()
	example.Extensions = []ExtensionConfig{{
		Name:        "site-emotion",
		Version:     "1.0.0",
		Description: "Adds the emotion plugin",
		Fragment:    value.MapOf("plugins", []any{"babel-plugin-emotion"}),
	}}

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal example configuration").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write configuration file").
			WithContext(logfields.KeyPath, path).
			Build()
	}
	return nil
}
