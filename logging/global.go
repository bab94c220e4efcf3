package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/giygas/mediscript-api/config"
)

// LoggingService owns the process logger and the rotating file behind it
type LoggingService struct {
	Logger   *slog.Logger
	Rotating *RotatingLogger
}

var DefaultLoggingService *LoggingService

// InitLoggerWithConfig builds the global logger from the application config
func InitLoggerWithConfig(cfg *config.Config) *LoggingService {
	if DefaultLoggingService != nil && DefaultLoggingService.Rotating != nil {
		_ = DefaultLoggingService.Rotating.Close()
	}

	DefaultLoggingService = NewLoggingService(cfg)
	slog.SetDefault(DefaultLoggingService.Logger)
	return DefaultLoggingService
}

// NewLoggingService writes text to stdout and JSON to the weekly rotating file
func NewLoggingService(cfg *config.Config) *LoggingService {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(cfg.Env, cfg.LogLevel, testVerbose()),
	})

	if cfg.LogDir == "" {
		return &LoggingService{Logger: slog.New(consoleHandler)}
	}

	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory, logging to console only", "error", err)
		return &LoggingService{Logger: logger}
	}

	rotating := NewRotatingLoggerWithSizeLimit(cfg.LogDir, cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{
		Level: GetFileLogLevel(),
	})

	return &LoggingService{
		Logger:   slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}),
		Rotating: rotating,
	}
}

// Close releases the rotating file, if any
func (s *LoggingService) Close() error {
	if s == nil || s.Rotating == nil {
		return nil
	}
	return s.Rotating.Close()
}

// testVerbose reports whether go test was started with -v
func testVerbose() bool {
	for _, arg := range os.Args[1:] {
		if arg == "-test.v" || arg == "-test.v=true" {
			return true
		}
	}
	return false
}

// multiHandler fans a record out to every handler that accepts its level
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// Package-level functions for direct access

// Logger returns the service logger, or slog's default before initialization
func Logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.Default()
	}
	return DefaultLoggingService.Logger
}

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
