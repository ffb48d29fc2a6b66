package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"

	"github.com/srynk/pulse/internal/config"
)

// logFileName is created in the state directory by the chat TUI
const logFileName = "pulse.log"

// newTUILogger creates a logger that doesn't interfere with the TUI
// by writing to a file instead of stdout/stderr
func newTUILogger(logLevel string) *slog.Logger {
	logDir := config.GetStateDir()
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return discardLogger()
	}

	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return discardLogger()
	}

	return slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: parseLogLevel(logLevel),
	}))
}

// newCLILogger creates a colored logger on w for one-shot commands
func newCLILogger(w io.Writer, logLevel string) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:   parseLogLevel(logLevel),
		NoColor: !isTTY(w),
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// effectiveLogLevel lets --verbose or the verbose config key force debug
func effectiveLogLevel(cfg config.Config) string {
	if verboseFlag || cfg.Verbose {
		return "debug"
	}
	return cfg.LogLevel
}
