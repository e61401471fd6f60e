// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"disinfo-scan/internal/detector"
	"disinfo-scan/internal/paths"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported output formats for the defaults and profile sections
var validFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
	"csv":  true,
}

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults Defaults `yaml:"defaults" toml:"defaults" json:"defaults"`

	// Scoring constants handed to the analyzer
	Scoring detector.Tuning `yaml:"scoring" toml:"scoring" json:"scoring"`

	// Web server settings
	Web WebConfig `yaml:"web" toml:"web" json:"web"`

	// Batch analysis settings
	Batch BatchConfig `yaml:"batch" toml:"batch" json:"batch"`

	// Profiles for different analysis scenarios
	Profiles map[string]Profile `yaml:"profiles" toml:"profiles" json:"profiles"`
}

// Defaults holds the settings applied when no flag or profile overrides them
type Defaults struct {
	Format    string `yaml:"format" toml:"format" json:"format"`
	MinLength int    `yaml:"min_length" toml:"min_length" json:"min_length"`
	Verbose   bool   `yaml:"verbose" toml:"verbose" json:"verbose"`
	Debug     bool   `yaml:"debug" toml:"debug" json:"debug"`
	NoColor   bool   `yaml:"no_color" toml:"no_color" json:"no_color"`
}

// WebConfig holds settings for the serve command
type WebConfig struct {
	Port         int     `yaml:"port" toml:"port" json:"port"`
	MaxBodyBytes int64   `yaml:"max_body_bytes" toml:"max_body_bytes" json:"max_body_bytes"`
	RateLimit    float64 `yaml:"rate_limit" toml:"rate_limit" json:"rate_limit"` // requests per second on /analyze
	Burst        int     `yaml:"burst" toml:"burst" json:"burst"`
	HistoryLimit int     `yaml:"history_limit" toml:"history_limit" json:"history_limit"` // 0 keeps every entry
	HistoryStore string  `yaml:"history_store" toml:"history_store" json:"history_store"` // memory or sqlite
}

// BatchConfig holds settings for the batch command
type BatchConfig struct {
	Workers int `yaml:"workers" toml:"workers" json:"workers"`
}

// Profile represents a named set of overrides
type Profile struct {
	Description string  `yaml:"description" toml:"description" json:"description"`
	Format      string  `yaml:"format" toml:"format" json:"format"`
	MinLength   int     `yaml:"min_length" toml:"min_length" json:"min_length"`
	Verbose     bool    `yaml:"verbose" toml:"verbose" json:"verbose"`
	NoColor     bool    `yaml:"no_color" toml:"no_color" json:"no_color"`
	FailOn      float64 `yaml:"fail_on" toml:"fail_on" json:"fail_on"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	config := &Config{
		Scoring:  detector.DefaultTuning(),
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "text"
	config.Defaults.MinLength = 10

	config.Web.Port = 8080
	config.Web.MaxBodyBytes = 1 << 20
	config.Web.RateLimit = 5
	config.Web.Burst = 10
	config.Web.HistoryLimit = 500
	config.Web.HistoryStore = "memory"

	config.Batch.Workers = 4

	config.Profiles["strict"] = Profile{
		Description: "Verbose output that fails when risk rises above 0.4",
		Format:      "text",
		MinLength:   10,
		Verbose:     true,
		FailOn:      0.4,
	}
	config.Profiles["ci"] = Profile{
		Description: "Machine-readable output for pipelines",
		Format:      "json",
		MinLength:   10,
		NoColor:     true,
		FailOn:      0.7,
	}

	return config
}

// LoadConfig loads configuration from the specified file path. An empty path
// returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := decode(cleanPath, data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// decode overlays data onto config using the format implied by the file extension
func decode(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), config); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(config); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	}
	return nil
}

// configNames are checked in the working directory, in order
var configNames = []string{
	"disinfo-scan.yaml",
	"disinfo-scan.yml",
	"disinfo-scan.toml",
	"disinfo-scan.json",
	".disinfo-scan.yaml",
	".disinfo-scan.yml",
	".disinfo-scan.toml",
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range configNames {
		if fileExists(name) {
			return name
		}
	}

	for _, name := range []string{"config.yaml", "config.yml", "config.toml", "config.json"} {
		candidate := filepath.Join(paths.GetConfigDir(), name)
		if fileExists(candidate) {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range []string{".disinfo-scan.yaml", ".disinfo-scan.yml"} {
			candidate := filepath.Join(home, name)
			if fileExists(candidate) {
				return candidate
			}
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the profile names in sorted order
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile copies the profile's non-zero settings onto the defaults section
// and returns the profile's fail-on threshold.
func (c *Config) ApplyProfile(name string) (float64, error) {
	profile := c.GetProfile(name)
	if profile == nil {
		return 0, fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(c.ListProfiles(), ", "))
	}
	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.MinLength > 0 {
		c.Defaults.MinLength = profile.MinLength
	}
	if profile.Verbose {
		c.Defaults.Verbose = true
	}
	if profile.NoColor {
		c.Defaults.NoColor = true
	}
	return profile.FailOn, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if !validFormats[config.Defaults.Format] {
		return fmt.Errorf("unsupported default format %q", config.Defaults.Format)
	}
	if config.Defaults.MinLength < 0 {
		return fmt.Errorf("min_length must not be negative, got %d", config.Defaults.MinLength)
	}

	if err := config.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring configuration: %w", err)
	}

	if err := validateWeb(config.Web); err != nil {
		return fmt.Errorf("web configuration: %w", err)
	}

	if config.Batch.Workers < 1 {
		return fmt.Errorf("batch workers must be at least 1, got %d", config.Batch.Workers)
	}

	for name, profile := range config.Profiles {
		if profile.Format != "" && !validFormats[profile.Format] {
			return fmt.Errorf("profile '%s': unsupported format %q", name, profile.Format)
		}
		if profile.FailOn < 0 || profile.FailOn > 1 {
			return fmt.Errorf("profile '%s': fail_on must be within [0, 1], got %v", name, profile.FailOn)
		}
	}

	return nil
}

func validateWeb(web WebConfig) error {
	if web.Port < 1 || web.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", web.Port)
	}
	if web.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if web.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	if web.RateLimit > 0 && web.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when rate limiting is enabled")
	}
	if web.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative")
	}
	switch web.HistoryStore {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("history_store must be memory or sqlite, got %q", web.HistoryStore)
	}
	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
// This is the shared helper used by both the CLI and the web server.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}
