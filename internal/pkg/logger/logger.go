package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	globalZap    *zap.Logger
)

// Init builds the root zap logger for level and format ("json" or "console"), bridges it into
// slog and installs both as process defaults.
func Init(levelStr, format string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		level = zapcore.InfoLevel
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	z, buildErr := cfg.Build()
	if buildErr != nil {
		return nil, fmt.Errorf("build zap logger: %w", buildErr)
	}

	set(z)
	if err != nil {
		Warn("Invalid log level string, defaulting to INFO", "input", levelStr)
	}
	return z, nil
}

// Set installs z as the process logger.
func Set(z *zap.Logger) {
	set(z)
}

func set(z *zap.Logger) {
	handler := slogzap.Option{Level: levelOf(z), Logger: z}.NewZapHandler()
	l := slog.New(handler)

	mu.Lock()
	globalZap = z
	globalLogger = l
	mu.Unlock()

	slog.SetDefault(l)
}

// levelOf maps the lowest level z accepts onto slog.
func levelOf(z *zap.Logger) slog.Level {
	core := z.Core()
	switch {
	case core.Enabled(zapcore.DebugLevel):
		return slog.LevelDebug
	case core.Enabled(zapcore.InfoLevel):
		return slog.LevelInfo
	case core.Enabled(zapcore.WarnLevel):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Zap returns the process zap logger.
func Zap() *zap.Logger {
	ensureInitialized()
	mu.RLock()
	defer mu.RUnlock()
	return globalZap
}

func current() *slog.Logger {
	ensureInitialized()
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

func ensureInitialized() {
	mu.RLock()
	ready := globalLogger != nil
	mu.RUnlock()
	if !ready {
		z, err := zap.NewProduction()
		if err != nil {
			z = zap.NewNop()
		}
		set(z)
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	current().Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	current().Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	current().Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	current().Log(context.Background(), slog.LevelError, msg, args...)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	current().Log(context.Background(), slog.LevelError, msg, args...)
	_ = Zap().Sync()
	os.Exit(1)
}
