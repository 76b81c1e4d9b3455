package utils

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logOnce sync.Once
	baseLog *slog.Logger
)

// InitLogger configures the global JSON logger exactly once, writing to
// stdout and a size-rotated file.
func InitLogger(component, filePath string) *slog.Logger {
	logOnce.Do(func() {
		_ = os.MkdirAll(filepath.Dir(filePath), 0755)

		rot := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		mw := io.MultiWriter(os.Stdout, rot)

		h := slog.NewJSONHandler(mw, &slog.HandlerOptions{Level: slog.LevelInfo})
		baseLog = slog.New(h).With("component", component)
	})
	return baseLog
}

// Logger returns the global logger, initializing a default one if needed.
func Logger() *slog.Logger {
	if baseLog == nil {
		return InitLogger("app", "./logs/app.log")
	}
	return baseLog
}

// NewLogger returns a child logger tagged with a component name.
func NewLogger(component string) *slog.Logger {
	return Logger().With("component", component)
}
