package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

var globalLogger *slog.Logger

// ParseLevel maps a config string onto a zap level. Unknown strings mean INFO.
func ParseLevel(levelStr string) zapcore.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewZap builds the process zap logger: JSON production encoding at the given level.
func NewZap(levelStr string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(levelStr))
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Init routes the global slog logger into zapLogger and makes it the slog default.
func Init(zapLogger *zap.Logger) {
	globalLogger = slog.New(zapslog.NewHandler(zapLogger.Core()))
	slog.SetDefault(globalLogger)
}

// ensureInitialized falls back to a stdout JSON handler when Init was never called.
func ensureInitialized() {
	if globalLogger == nil {
		globalLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Log(context.Background(), slog.LevelError, msg, args...)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	ensureInitialized()
	// Логируем всегда перед выходом.
	globalLogger.Log(context.Background(), slog.LevelError, msg, args...)
	os.Exit(1)
}
