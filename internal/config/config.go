// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for docent.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.docent/config.toml
//   - ~/.docent/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/docentlabs/docent/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docent configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend connection
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Analysis feature defaults
	Features FeaturesConfig `toml:"features" json:"features"`

	// Export configuration
	Export ExportConfig `toml:"export" json:"export"`

	// Watch directory configuration
	Watch WatchConfig `toml:"watch" json:"watch"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// BackendConfig contains the analysis backend connection settings.
type BackendConfig struct {
	// URL is the base URL of the analysis backend
	URL string `toml:"url" json:"url"`
	// TimeoutSecs is the request timeout for standard calls in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// UploadTimeoutSecs is the request timeout for PDF uploads in seconds
	UploadTimeoutSecs int `toml:"upload_timeout_secs" json:"upload_timeout_secs"`
	// MaxUploadMB is the maximum PDF size accepted before upload, in megabytes
	MaxUploadMB int `toml:"max_upload_mb" json:"max_upload_mb"`
}

// FeaturesConfig contains per-feature generation defaults.
type FeaturesConfig struct {
	// SummaryLength is the target summary length in words
	SummaryLength int `toml:"summary_length" json:"summary_length"`
	// KeywordCount is the number of keywords to extract
	KeywordCount int `toml:"keyword_count" json:"keyword_count"`
	// FlashcardCount is the number of flashcards to generate
	FlashcardCount int `toml:"flashcard_count" json:"flashcard_count"`
	// SuggestionsEnabled fetches follow-up suggestions after each reply
	SuggestionsEnabled bool `toml:"suggestions_enabled" json:"suggestions_enabled"`
}

// ExportConfig contains transcript and notes export settings.
type ExportConfig struct {
	// DefaultFormat is the export format: "markdown", "html", "json"
	DefaultFormat string `toml:"default_format" json:"default_format"`
	// Dir is the directory exports are written to (empty = current directory)
	Dir string `toml:"dir" json:"dir"`
}

// WatchConfig contains the PDF watch directory settings.
type WatchConfig struct {
	// Enabled turns on the watch directory
	Enabled bool `toml:"enabled" json:"enabled"`
	// Dir is the directory watched for new PDFs
	Dir string `toml:"dir" json:"dir"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// MarkdownRendering renders assistant replies as markdown
	MarkdownRendering bool `toml:"markdown_rendering" json:"markdown_rendering"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			URL:               "http://127.0.0.1:8000",
			TimeoutSecs:       60,
			UploadTimeoutSecs: 120,
			MaxUploadMB:       10,
		},

		Features: FeaturesConfig{
			SummaryLength:      500,
			KeywordCount:       15,
			FlashcardCount:     10,
			SuggestionsEnabled: true,
		},

		Export: ExportConfig{
			DefaultFormat: "markdown",
			Dir:           "",
		},

		Watch: WatchConfig{
			Enabled: false,
			Dir:     "",
		},

		UI: UIConfig{
			Theme:             "dark",
			CompactMode:       false,
			MarkdownRendering: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the docent configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docent"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// finishLoad applies env overrides, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	cfg.SetDefaults()
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	cfg.SetDefaults()
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# docent configuration file\n")
	buf.WriteString("# Generated by docent - edit with care\n")
	buf.WriteString("\n")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Backend URL must parse and carry a scheme the client can dial.
	if c.Backend.URL != "" {
		u, err := url.Parse(c.Backend.URL)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "backend.url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, ValidationError{
				Field:   "backend.url",
				Message: fmt.Sprintf("scheme must be http or https, got '%s'", u.Scheme),
			})
		}
	}

	if c.Backend.TimeoutSecs < 1 || c.Backend.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.Backend.TimeoutSecs),
		})
	}
	if c.Backend.UploadTimeoutSecs < 1 || c.Backend.UploadTimeoutSecs > 1800 {
		errs = append(errs, ValidationError{
			Field:   "backend.upload_timeout_secs",
			Message: fmt.Sprintf("must be 1-1800, got %d", c.Backend.UploadTimeoutSecs),
		})
	}
	if c.Backend.MaxUploadMB < 1 || c.Backend.MaxUploadMB > 500 {
		errs = append(errs, ValidationError{
			Field:   "backend.max_upload_mb",
			Message: fmt.Sprintf("must be 1-500, got %d", c.Backend.MaxUploadMB),
		})
	}

	if c.Features.SummaryLength < 50 || c.Features.SummaryLength > 5000 {
		errs = append(errs, ValidationError{
			Field:   "features.summary_length",
			Message: fmt.Sprintf("must be 50-5000, got %d", c.Features.SummaryLength),
		})
	}
	if c.Features.KeywordCount < 1 || c.Features.KeywordCount > 100 {
		errs = append(errs, ValidationError{
			Field:   "features.keyword_count",
			Message: fmt.Sprintf("must be 1-100, got %d", c.Features.KeywordCount),
		})
	}
	if c.Features.FlashcardCount < 1 || c.Features.FlashcardCount > 100 {
		errs = append(errs, ValidationError{
			Field:   "features.flashcard_count",
			Message: fmt.Sprintf("must be 1-100, got %d", c.Features.FlashcardCount),
		})
	}

	// Validate export format
	validFormats := map[string]bool{"markdown": true, "html": true, "json": true}
	if c.Export.DefaultFormat != "" && !validFormats[strings.ToLower(c.Export.DefaultFormat)] {
		errs = append(errs, ValidationError{
			Field:   "export.default_format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: markdown, html, json", c.Export.DefaultFormat),
		})
	}

	// Watch requires a directory when enabled
	if c.Watch.Enabled && c.Watch.Dir == "" {
		errs = append(errs, ValidationError{
			Field:   "watch.dir",
			Message: "watch.dir must be set when watch is enabled",
		})
	}

	// Validate UI theme
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if c.Backend.UploadTimeoutSecs == 0 {
		c.Backend.UploadTimeoutSecs = defaults.Backend.UploadTimeoutSecs
	}
	if c.Backend.MaxUploadMB == 0 {
		c.Backend.MaxUploadMB = defaults.Backend.MaxUploadMB
	}

	if c.Features.SummaryLength == 0 {
		c.Features.SummaryLength = defaults.Features.SummaryLength
	}
	if c.Features.KeywordCount == 0 {
		c.Features.KeywordCount = defaults.Features.KeywordCount
	}
	if c.Features.FlashcardCount == 0 {
		c.Features.FlashcardCount = defaults.Features.FlashcardCount
	}

	if c.Export.DefaultFormat == "" {
		c.Export.DefaultFormat = defaults.Export.DefaultFormat
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DOCENT_BACKEND_URL: overrides backend.url
//   - DOCENT_TIMEOUT_SECS: overrides backend.timeout_secs
//   - DOCENT_MAX_UPLOAD_MB: overrides backend.max_upload_mb
//   - DOCENT_SUMMARY_LENGTH: overrides features.summary_length
//   - DOCENT_KEYWORD_COUNT: overrides features.keyword_count
//   - DOCENT_FLASHCARD_COUNT: overrides features.flashcard_count
//   - DOCENT_EXPORT_FORMAT: overrides export.default_format
//   - DOCENT_WATCH_DIR: overrides watch.dir and enables watching
//   - DOCENT_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DOCENT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("DOCENT_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.TimeoutSecs = n
		}
	}
	if v := os.Getenv("DOCENT_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.MaxUploadMB = n
		}
	}
	if v := os.Getenv("DOCENT_SUMMARY_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Features.SummaryLength = n
		}
	}
	if v := os.Getenv("DOCENT_KEYWORD_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Features.KeywordCount = n
		}
	}
	if v := os.Getenv("DOCENT_FLASHCARD_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Features.FlashcardCount = n
		}
	}
	if v := os.Getenv("DOCENT_EXPORT_FORMAT"); v != "" {
		c.Export.DefaultFormat = v
	}
	if v := os.Getenv("DOCENT_WATCH_DIR"); v != "" {
		c.Watch.Dir = v
		c.Watch.Enabled = true
	}
	if v := os.Getenv("DOCENT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "backend.url").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "backend.url").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	// Handle string input with type conversion
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	// Direct assignment for matching types
	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	// Type conversion for compatible types
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"backend.url",
		"backend.timeout_secs",
		"backend.upload_timeout_secs",
		"backend.max_upload_mb",
		"features.summary_length",
		"features.keyword_count",
		"features.flashcard_count",
		"features.suggestions_enabled",
		"export.default_format",
		"export.dir",
		"watch.enabled",
		"watch.dir",
		"ui.theme",
		"ui.compact_mode",
		"ui.markdown_rendering",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
