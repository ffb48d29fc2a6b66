// Package config handles configuration for pulse.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"

	"github.com/srynk/pulse/internal/models"
)

// AppName names the configuration and state directories
const AppName = "pulse"

// Environment variables read on load
const (
	EnvModel   = "PULSE_MODEL"
	EnvBaseURL = "PULSE_BASE_URL"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	DefaultModel string `json:"default_model" validate:"required"`
	BaseURL      string `json:"base_url" validate:"required,url"`
	// TimeoutSeconds bounds a single generateContent call.
	TimeoutSeconds int `json:"timeout_seconds" validate:"min=1,max=600"`
	// RequestsPerMinute paces outgoing requests; 0 disables pacing.
	RequestsPerMinute int            `json:"requests_per_minute" validate:"min=0,max=1000"`
	Verbose           bool           `json:"verbose"`
	CopyToClipboard   bool           `json:"copy_to_clipboard"`
	Theme             string         `json:"theme" validate:"oneof=dark light"`
	LogLevel          string         `json:"log_level" validate:"oneof=debug info warn error"`
	Markdown          MarkdownConfig `json:"markdown,omitempty"`

	// APIKey comes from the environment only and is never written to disk.
	APIKey string `json:"-"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DefaultModel:      models.DefaultModelName,
		BaseURL:           models.DefaultBaseURL,
		TimeoutSeconds:    60,
		RequestsPerMinute: 0,
		Verbose:           false,
		CopyToClipboard:   false,
		Theme:             "dark",
		LogLevel:          "warn",
		Markdown:          DefaultMarkdownConfig(),
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks cfg against its field constraints
func Validate(cfg Config) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Store reads and writes config.json on a filesystem
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a Store rooted at dir on fs
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

var defaultStore = NewStore(afero.NewOsFs(), filepath.Join(xdg.ConfigHome, AppName))

// Dir returns the configuration directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the path to the config file
func (s *Store) Path() string {
	return filepath.Join(s.dir, "config.json")
}

// EnsureDir creates the configuration directory if it doesn't exist
func (s *Store) EnsureDir() (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return s.dir, nil
}

// LoadFile reads the config file alone, without environment overrides.
// A missing file yields the defaults; an unparsable one yields the defaults
// and an error.
func (s *Store) LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := afero.ReadFile(s.fs, s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, Validate(cfg)
}

// Load reads the config file and applies environment overrides
func (s *Store) Load() (Config, error) {
	cfg, err := s.LoadFile()
	ApplyEnv(&cfg)
	if err != nil {
		return cfg, err
	}
	return cfg, Validate(cfg)
}

// Save validates cfg and writes it to disk
func (s *Store) Save(cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	if _, err := s.EnsureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays environment settings onto cfg
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvModel); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	cfg.APIKey = APIKeyFromEnv()
}

// APIKeyFromEnv returns the API key from the environment, or "" when unset
func APIKeyFromEnv() string {
	if v := os.Getenv(models.APIKeyEnv); v != "" {
		return v
	}
	return os.Getenv(models.FallbackAPIKeyEnv)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return defaultStore.Dir()
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	return defaultStore.Path()
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	return defaultStore.Load()
}

// LoadFileConfig loads the config file without environment overrides, for
// editing it in place
func LoadFileConfig() (Config, error) {
	return defaultStore.LoadFile()
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	return defaultStore.Save(cfg)
}

// GetStateDir returns the directory for logs and other runtime state
func GetStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// AvailableModels returns a list of available model names
func AvailableModels() []string {
	var names []string
	for _, m := range models.AllModels() {
		names = append(names, m.Name)
	}
	return names
}

// Keys lists the settings accepted by SetValue
func Keys() []string {
	return []string{
		"default_model",
		"base_url",
		"timeout_seconds",
		"requests_per_minute",
		"verbose",
		"copy_to_clipboard",
		"theme",
		"log_level",
		"markdown.style",
	}
}

// SetValue assigns a single setting by its JSON key
func SetValue(cfg *Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "default_model":
		cfg.DefaultModel = value
	case "base_url":
		cfg.BaseURL = strings.TrimRight(value, "/")
	case "timeout_seconds", "requests_per_minute":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		if key == "timeout_seconds" {
			cfg.TimeoutSeconds = n
		} else {
			cfg.RequestsPerMinute = n
		}
	case "verbose", "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		if key == "verbose" {
			cfg.Verbose = b
		} else {
			cfg.CopyToClipboard = b
		}
	case "theme":
		cfg.Theme = value
	case "log_level":
		cfg.LogLevel = strings.ToLower(value)
	case "markdown.style":
		cfg.Markdown.Style = value
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return Validate(*cfg)
}
