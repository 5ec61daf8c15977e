// pattern: Imperative Shell

package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the Manager.
type Config struct {
	FilePath       string    // Rotated JSON log file
	MaxSizeMB      int       // Rotate after this many megabytes (default 10)
	MaxBackups     int       // Rotated files to keep (default 3)
	MaxAgeDays     int       // Days to keep rotated files (default 7)
	Level          string    // debug, info, warn, error (default info)
	ChannelBufSize int       // Entries buffered for the TUI (default 1000)
	Console        io.Writer // Optional human-readable mirror, e.g. os.Stderr for headless mode
}

// LoggerProvider hands out scoped loggers. Both Manager and TestLogManager
// implement it.
type LoggerProvider interface {
	For(scope string) *ScopedLogger
}

// ScopedLogger is a named logger taking slog-style key/value pairs.
// A zero or nil-backed ScopedLogger discards everything.
type ScopedLogger struct {
	slog  *slog.Logger
	scope string
}

// Debug logs at DEBUG level.
func (l *ScopedLogger) Debug(msg string, args ...any) {
	if l != nil && l.slog != nil {
		l.slog.Debug(msg, args...)
	}
}

// Info logs at INFO level.
func (l *ScopedLogger) Info(msg string, args ...any) {
	if l != nil && l.slog != nil {
		l.slog.Info(msg, args...)
	}
}

// Warn logs at WARN level.
func (l *ScopedLogger) Warn(msg string, args ...any) {
	if l != nil && l.slog != nil {
		l.slog.Warn(msg, args...)
	}
}

// Error logs at ERROR level.
func (l *ScopedLogger) Error(msg string, args ...any) {
	if l != nil && l.slog != nil {
		l.slog.Error(msg, args...)
	}
}

// With returns a logger that adds args to every entry.
func (l *ScopedLogger) With(args ...any) *ScopedLogger {
	if l == nil || l.slog == nil {
		return l
	}
	return &ScopedLogger{slog: l.slog.With(args...), scope: l.scope}
}

// Scope returns the logger's name.
func (l *ScopedLogger) Scope() string {
	if l == nil {
		return ""
	}
	return l.scope
}

// Manager writes every record to a rotated file and to a channel the TUI
// drains, and optionally mirrors it to a console writer.
type Manager struct {
	base    *zap.Logger
	sink    *ChannelSink
	file    *lumberjack.Logger
	level   zapcore.Level
	mu      sync.RWMutex
	loggers map[string]*ScopedLogger
}

// NewManager creates a Manager. FilePath is required.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.FilePath == "" {
		return nil, errors.New("logging: FilePath is required")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 7
	}
	if cfg.ChannelBufSize == 0 {
		cfg.ChannelBufSize = 1000
	}

	level := parseZapLevel(cfg.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	sink := NewChannelSink(cfg.ChannelBufSize)

	encCfg := encoderConfig()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(sink), level),
	}
	if cfg.Console != nil {
		consoleCfg := encCfg
		consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(cfg.Console), level))
	}

	return &Manager{
		base:    zap.New(zapcore.NewTee(cores...)),
		sink:    sink,
		file:    file,
		level:   level,
		loggers: make(map[string]*ScopedLogger),
	}, nil
}

// For returns the cached logger for scope, creating it on first use.
func (m *Manager) For(scope string) *ScopedLogger {
	return cachedLogger(&m.mu, m.loggers, m.base, m.level, scope)
}

// Entries returns the channel of parsed entries for the TUI.
func (m *Manager) Entries() <-chan LogEntry {
	return m.sink.Entries()
}

// Sync flushes buffered records.
func (m *Manager) Sync() error {
	return m.base.Sync()
}

// Close flushes and releases the file and the entry channel.
func (m *Manager) Close() error {
	_ = m.Sync()
	_ = m.sink.Close()
	return m.file.Close()
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.EpochTimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}

func parseZapLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// cachedLogger implements For for both managers.
func cachedLogger(mu *sync.RWMutex, loggers map[string]*ScopedLogger, base *zap.Logger, level zapcore.Level, scope string) *ScopedLogger {
	mu.RLock()
	logger, ok := loggers[scope]
	mu.RUnlock()
	if ok {
		return logger
	}

	mu.Lock()
	defer mu.Unlock()
	if logger, ok := loggers[scope]; ok {
		return logger
	}

	named := base.Named(scope)
	logger = &ScopedLogger{
		slog:  slog.New(&zapSlogHandler{zap: named, level: level}),
		scope: scope,
	}
	loggers[scope] = logger
	return logger
}

// zapSlogHandler adapts a zap.Logger to slog.Handler.
type zapSlogHandler struct {
	zap   *zap.Logger
	level zapcore.Level
	attrs []slog.Attr
}

func (h *zapSlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return slogToZapLevel(level) >= h.level
}

func (h *zapSlogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]zap.Field, 0, r.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		fields = append(fields, zapField(attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, zapField(attr))
		return true
	})

	if ce := h.zap.Check(slogToZapLevel(r.Level), r.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h *zapSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &zapSlogHandler{
		zap:   h.zap,
		level: h.level,
		attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

func (h *zapSlogHandler) WithGroup(name string) slog.Handler {
	return &zapSlogHandler{
		zap:   h.zap.Named(name),
		level: h.level,
		attrs: h.attrs,
	}
}

// zapField converts an attribute, keeping errors as strings so they survive
// JSON encoding.
func zapField(attr slog.Attr) zap.Field {
	v := attr.Value.Resolve().Any()
	if err, ok := v.(error); ok {
		return zap.String(attr.Key, err.Error())
	}
	return zap.Any(attr.Key, v)
}

func slogToZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
