package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	// Logger is the global slog logger instance. It falls back to the slog
	// default until Init runs so packages can log from tests without setup.
	Logger = slog.Default()
)

// Init initializes the global logger with the level from the LOG_LEVEL
// environment variable. Default level is INFO.
func Init() {
	InitWithWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// InitWithWriter builds the JSON logger on w at the given level name.
func InitWithWriter(w io.Writer, levelName string) {
	if levelName == "" {
		levelName = "info"
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(levelName),
	})

	Logger = slog.New(handler).With("service", "scrimhub-ui")
	slog.SetDefault(Logger)

	Logger.Debug("Logger initialized", "level", levelName)
}

// ParseLevel maps a LOG_LEVEL value onto a slog level. Unknown names are INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
