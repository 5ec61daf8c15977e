// pattern: Imperative Shell

package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// TestLogManager is a LoggerProvider for tests. Records at every level go to
// a channel only.
type TestLogManager struct {
	sink    *ChannelSink
	base    *zap.Logger
	mu      sync.RWMutex
	loggers map[string]*ScopedLogger
}

// NewTestLogManager creates a TestLogManager buffering size entries.
func NewTestLogManager(size int) *TestLogManager {
	sink := NewChannelSink(size)
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(sink), zapcore.DebugLevel)
	return &TestLogManager{
		sink:    sink,
		base:    zap.New(core),
		loggers: make(map[string]*ScopedLogger),
	}
}

// For returns the cached logger for scope.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	return cachedLogger(&m.mu, m.loggers, m.base, zapcore.DebugLevel, scope)
}

// Channel returns the channel receiving log entries.
func (m *TestLogManager) Channel() <-chan LogEntry {
	return m.sink.Entries()
}

// Close closes the entry channel.
func (m *TestLogManager) Close() error {
	return m.sink.Close()
}
