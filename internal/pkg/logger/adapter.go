package logger

import (
	"context"
	"log/slog"

	"seed_checker/internal/app/port"
)

// slogAdapter реализует интерфейс port.Logger.
// With a nil logger it forwards to the package-level functions (and so to zap).
type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter returns a port.Logger backed by the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// NewAdapter returns a port.Logger backed by l.
func NewAdapter(l *slog.Logger) port.Logger {
	return &slogAdapter{l: l}
}

// Discard returns a port.Logger that drops everything. Intended for tests.
func Discard() port.Logger {
	return &slogAdapter{l: slog.New(slog.DiscardHandler)}
}

func (a *slogAdapter) log(level slog.Level, msg string, args ...any) {
	if a.l != nil {
		a.l.Log(context.Background(), level, msg, args...)
		return
	}
	switch level {
	case slog.LevelDebug:
		Debug(msg, args...)
	case slog.LevelWarn:
		Warn(msg, args...)
	case slog.LevelError:
		Error(msg, args...)
	default:
		Info(msg, args...)
	}
}

// Info логирует информационное сообщение.
func (a *slogAdapter) Info(msg string, args ...any) { a.log(slog.LevelInfo, msg, args...) }

// Debug логирует отладочное сообщение.
func (a *slogAdapter) Debug(msg string, args ...any) { a.log(slog.LevelDebug, msg, args...) }

// Warn логирует предупреждающее сообщение.
func (a *slogAdapter) Warn(msg string, args ...any) { a.log(slog.LevelWarn, msg, args...) }

// Error логирует сообщение об ошибке.
func (a *slogAdapter) Error(msg string, args ...any) { a.log(slog.LevelError, msg, args...) }
