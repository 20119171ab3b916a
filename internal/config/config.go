// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for cortex.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.cortex/config.toml
//   - ~/.cortex/config.json
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
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/cortex-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete cortex configuration.
type Config struct {
	// Backend connection
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Session persistence
	Session SessionConfig `toml:"session" json:"session"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// BackendConfig describes how to reach the CortexAI backend.
type BackendConfig struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000". Required.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs bounds every HTTP request. Uploads use 4x this value.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// PollIntervalMs is the interval between history polls while awaiting a reply.
	PollIntervalMs int `toml:"poll_interval_ms" json:"poll_interval_ms"`
	// MaxWaitSecs bounds how long a reply is awaited. Zero waits forever.
	MaxWaitSecs int `toml:"max_wait_secs" json:"max_wait_secs"`
	// MaxRequestsPerSec caps outgoing requests. Zero disables the cap.
	MaxRequestsPerSec float64 `toml:"max_requests_per_sec" json:"max_requests_per_sec"`
}

// SessionConfig controls where the session cookie is stored.
type SessionConfig struct {
	// Path of the session file. Empty means ~/.cortex/session.json.
	Path string `toml:"path" json:"path"`
	// Watch re-runs the route guard when the session file changes on disk.
	Watch bool `toml:"watch" json:"watch"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme string `toml:"theme" json:"theme"`
	// SidebarWidth is the width of the conversation list in columns.
	SidebarWidth int `toml:"sidebar_width" json:"sidebar_width"`
}

// LoggingConfig controls the log file used in TUI mode.
type LoggingConfig struct {
	// Path of the log file. Empty means ~/.cortex/cortex.log.
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// DefaultPollInterval matches the backend's expected polling cadence.
const DefaultPollInterval = 2000 * time.Millisecond

// Default returns a Config with sensible default values.
// The backend URL has no default and must be configured.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:           "",
			TimeoutSecs:       30,
			PollIntervalMs:    int(DefaultPollInterval / time.Millisecond),
			MaxWaitSecs:       300,
			MaxRequestsPerSec: 5,
		},
		Session: SessionConfig{
			Watch: true,
		},
		UI: UIConfig{
			Theme:        "auto",
			SidebarWidth: 32,
		},
	}
}

// PollInterval returns the configured poll interval.
func (c *Config) PollInterval() time.Duration {
	if c.Backend.PollIntervalMs <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(c.Backend.PollIntervalMs) * time.Millisecond
}

// Timeout returns the configured request timeout.
func (c *Config) Timeout() time.Duration {
	if c.Backend.TimeoutSecs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// MaxWait returns how long a reply is awaited, zero for no limit.
func (c *Config) MaxWait() time.Duration {
	if c.Backend.MaxWaitSecs <= 0 {
		return 0
	}
	return time.Duration(c.Backend.MaxWaitSecs) * time.Second
}

// SessionPath returns the session file path, resolving the default location.
func (c *Config) SessionPath() (string, error) {
	if c.Session.Path != "" {
		return c.Session.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// LogPath returns the log file path, resolving the default location.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cortex.log"), nil
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the cortex configuration directory path.
// CORTEX_HOME overrides the default ~/.cortex location.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CORTEX_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".cortex"), nil
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
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
//
// Load does not validate; callers that need a usable backend call Validate
// before constructing a client.
func Load() (*Config, error) {
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			return LoadFromPath(tomlPath)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			return LoadFromPath(jsonPath)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// LoadFromPath loads configuration from an explicit file path.
// The format is chosen by extension; anything other than .json is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
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
	fillDefaults(cfg)
	return nil
}

// fillDefaults replaces zero values left by a partial file with defaults.
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Backend.TimeoutSecs == 0 {
		cfg.Backend.TimeoutSecs = def.Backend.TimeoutSecs
	}
	if cfg.Backend.PollIntervalMs == 0 {
		cfg.Backend.PollIntervalMs = def.Backend.PollIntervalMs
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
	if cfg.UI.SidebarWidth == 0 {
		cfg.UI.SidebarWidth = def.UI.SidebarWidth
	}
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

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf strings.Builder
	buf.WriteString("# cortex configuration file\n")
	buf.WriteString("# backend.base_url is required\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ErrMissingBaseURL is reported when no backend URL has been configured.
var ErrMissingBaseURL = errors.New("backend base URL is not configured (set backend.base_url or CORTEX_API_URL)")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
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

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e ValidateErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i := range e {
		errs[i] = e[i]
	}
	return errs
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.base_url",
			Message: ErrMissingBaseURL.Error(),
			Err:     ErrMissingBaseURL,
		})
	} else if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "backend.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Backend.BaseURL),
		})
	}

	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: "must not be negative",
		})
	}

	if c.Backend.PollIntervalMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.poll_interval_ms",
			Message: "must not be negative",
		})
	} else if c.Backend.PollIntervalMs > 0 && c.Backend.PollIntervalMs < 250 {
		errs = append(errs, ValidationError{
			Field:   "backend.poll_interval_ms",
			Message: fmt.Sprintf("%dms is too aggressive, minimum is 250ms", c.Backend.PollIntervalMs),
		})
	}

	if c.Backend.MaxWaitSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.max_wait_secs",
			Message: "must not be negative",
		})
	}

	if c.Backend.MaxRequestsPerSec < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.max_requests_per_sec",
			Message: "must not be negative",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if c.UI.SidebarWidth < 0 {
		errs = append(errs, ValidationError{
			Field:   "ui.sidebar_width",
			Message: "must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported variables:
//   - CORTEX_API_URL: overrides backend.base_url
//   - CORTEX_TIMEOUT_SECS: overrides backend.timeout_secs
//   - CORTEX_POLL_INTERVAL_MS: overrides backend.poll_interval_ms
//   - CORTEX_SESSION_FILE: overrides session.path
//   - CORTEX_LOG_FILE: overrides logging.path
//   - CORTEX_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("CORTEX_API_URL"); u != "" {
		c.Backend.BaseURL = u
	}

	if v := os.Getenv("CORTEX_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.TimeoutSecs = n
		}
	}

	if v := os.Getenv("CORTEX_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.PollIntervalMs = n
		}
	}

	if p := os.Getenv("CORTEX_SESSION_FILE"); p != "" {
		c.Session.Path = p
	}

	if p := os.Getenv("CORTEX_LOG_FILE"); p != "" {
		c.Logging.Path = p
	}

	if theme := os.Getenv("CORTEX_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "backend.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
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

	// BaseUrl -> BaseURL
	return strings.ReplaceAll(result.String(), "Url", "URL")
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
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
				return fmt.Errorf("invalid number value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"backend.base_url",
		"backend.timeout_secs",
		"backend.poll_interval_ms",
		"backend.max_wait_secs",
		"backend.max_requests_per_sec",
		"session.path",
		"session.watch",
		"ui.theme",
		"ui.sidebar_width",
		"logging.path",
	}
}

// String returns the configuration rendered as TOML.
func (c *Config) String() string {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
