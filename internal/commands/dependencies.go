package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"

	"github.com/srynk/pulse/internal/api"
	"github.com/srynk/pulse/internal/config"
	"github.com/srynk/pulse/internal/conversation"
	"github.com/srynk/pulse/internal/models"
	"github.com/srynk/pulse/internal/tui"
	"github.com/srynk/pulse/internal/turn"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig reads the user configuration.
	LoadConfig func() (config.Config, error)

	// LoadFileConfig reads the config file without environment overrides.
	LoadFileConfig func() (config.Config, error)

	// SaveConfig persists the user configuration.
	SaveConfig func(cfg config.Config) error

	// NewBackend builds the generation client for a model.
	NewBackend func(cfg config.Config, model models.Model, logger *slog.Logger) (api.GeminiClientInterface, error)

	// RunChat runs the chat TUI until the user quits.
	RunChat func(ctx context.Context, controller *turn.Controller, modelName, theme string, logger *slog.Logger) error

	// CopyToClipboard places text on the system clipboard.
	CopyToClipboard func(text string) error
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig:      config.LoadConfig,
		LoadFileConfig:  config.LoadFileConfig,
		SaveConfig:      config.SaveConfig,
		NewBackend:      newGeminiClient,
		RunChat:         tui.RunChat,
		CopyToClipboard: clipboard.WriteAll,
	}
}

// deps is swapped out by tests
var deps = NewDependencies()

func newGeminiClient(cfg config.Config, model models.Model, logger *slog.Logger) (api.GeminiClientInterface, error) {
	client, err := api.NewClient(
		api.WithModel(model),
		api.WithAPIKey(cfg.APIKey),
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithRateLimit(cfg.RequestsPerMinute),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// loadConfig returns the user configuration, falling back to defaults with
// environment overrides when the file is unreadable or invalid.
func loadConfig(logger *slog.Logger) config.Config {
	cfg, err := deps.LoadConfig()
	if err != nil {
		logger.Warn("using default configuration", "path", config.GetConfigPath(), "error", err)
		cfg = config.DefaultConfig()
		config.ApplyEnv(&cfg)
	}
	return cfg
}

// resolveModel returns the model to use (from flag or config)
func resolveModel(cfg config.Config) models.Model {
	if modelFlag != "" {
		return models.ModelFromName(modelFlag)
	}
	return models.ModelFromName(cfg.DefaultModel)
}

// newController wires a fresh conversation to a backend for cfg
func newController(cfg config.Config, logger *slog.Logger) (*turn.Controller, api.GeminiClientInterface, error) {
	model := resolveModel(cfg)
	backend, err := deps.NewBackend(cfg, model, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.APIKey == "" {
		logger.Debug("no API key in environment", "env", models.APIKeyEnv, "fallback_env", models.FallbackAPIKeyEnv)
	}
	return turn.NewController(conversation.NewStore(), backend, logger), backend, nil
}
