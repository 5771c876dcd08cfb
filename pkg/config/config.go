// Package config loads and validates the .axlint/config.yaml file.
//
// Environment variables referenced as ${VAR} or $VAR in the YAML are
// expanded before parsing, so provider keys and other secrets stay in the
// environment rather than in the committed file. All fields are optional;
// Load starts from Default and lets the file override.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/seojunpark/axlint/pkg/credential"
)

// Config is the top-level tool configuration.
type Config struct {
	Log       LogConfig        `yaml:"log"`
	Scan      ScanConfig       `yaml:"scan"`
	Report    ReportConfig     `yaml:"report"`
	Providers []ProviderConfig `yaml:"providers"`
	Serve     ServeConfig      `yaml:"serve"`
	History   HistoryConfig    `yaml:"history"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ScanConfig controls which Dart files the scanner visits and how
// aggressive the findings are.
type ScanConfig struct {
	// Include and Exclude are doublestar-style globs relative to the
	// project root.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
	// MinConfidence drops suggestions below this confidence from the
	// report body (they still count toward coverage statistics).
	MinConfidence float64 `yaml:"min_confidence"`
}

// ReportConfig holds report export defaults.
type ReportConfig struct {
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ProviderConfig overrides per-provider transport settings. The name must
// be one of the supported providers; unset fields keep adapter defaults.
type ProviderConfig struct {
	Name        string  `yaml:"name"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// ServeConfig holds the local web UI settings.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// HistoryConfig holds scan history settings. An empty path means
// .axlint/local/history.duckdb.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file exists or a field
// is left unset.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Scan: ScanConfig{
			Include:       []string{"lib/**/*.dart"},
			Exclude:       []string{"**/*.g.dart", "**/*.freezed.dart"},
			MinConfidence: 0.3,
		},
		Report: ReportConfig{Format: "markdown", Output: ""},
		Serve:  ServeConfig{Addr: "127.0.0.1:8417"},
	}
}

// Load reads a YAML file and returns a Config. Fields absent from the
// file keep their Default values. A missing file is not an error: it
// yields Default unchanged, since every setting has a workable default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.Scan.MinConfidence < 0 || c.Scan.MinConfidence > 1 {
		return fmt.Errorf("config: scan.min_confidence must be within [0, 1], got %v", c.Scan.MinConfidence)
	}

	for _, pattern := range append(append([]string{}, c.Scan.Include...), c.Scan.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("config: invalid glob pattern %q", pattern)
		}
	}

	switch c.Report.Format {
	case "markdown", "json", "csv", "table":
	default:
		return fmt.Errorf("config: report.format %q is not one of markdown, json, csv, table", c.Report.Format)
	}

	seen := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("config: provider name is required")
		}
		if !credential.Provider(p.Name).Valid() {
			return fmt.Errorf("config: unknown provider %q", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("config: duplicate provider %q", p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.MaxTokens < 0 {
			return fmt.Errorf("config: provider %q: max_tokens must not be negative", p.Name)
		}
		if p.Temperature < 0 || p.Temperature > 2 {
			return fmt.Errorf("config: provider %q: temperature must be within [0, 2]", p.Name)
		}
	}

	if c.Serve.Addr == "" {
		return fmt.Errorf("config: serve.addr is required")
	}

	return nil
}

// Provider returns the override block for a provider name, if present.
func (c Config) Provider(name credential.Provider) (ProviderConfig, bool) {
	for _, p := range c.Providers {
		if p.Name == name.String() {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

// Save marshals cfg to YAML and writes it to path, creating the parent
// directory as needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: create parent dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config file, not secret
		return fmt.Errorf("config: write: %w", err)
	}

	return nil
}
