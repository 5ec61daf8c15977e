// pattern: Imperative Shell

package logging

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

var errSinkClosed = errors.New("write to closed channel sink")

// ChannelSink is a zapcore.WriteSyncer that decodes zap's JSON output into
// LogEntry values and queues them on a bounded channel. When the channel is
// full the oldest queued entry is discarded.
type ChannelSink struct {
	mu      sync.Mutex
	entries chan LogEntry
	closed  bool
}

// NewChannelSink creates a sink buffering up to size entries.
func NewChannelSink(size int) *ChannelSink {
	size = max(size, 1)
	return &ChannelSink{entries: make(chan LogEntry, size)}
}

// Write implements io.Writer. Undecodable input is dropped silently so a bad
// record never blocks the logger.
func (s *ChannelSink) Write(p []byte) (int, error) {
	entry, err := decodeEntry(p)
	if err != nil {
		return len(p), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, errSinkClosed
	}

	for {
		select {
		case s.entries <- entry:
			return len(p), nil
		default:
		}
		select {
		case <-s.entries:
		default:
		}
	}
}

// Sync implements zapcore.WriteSyncer.
func (s *ChannelSink) Sync() error {
	return nil
}

// Close closes the entries channel. It is safe to call more than once.
func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	return nil
}

// Entries returns the receive side of the queue.
func (s *ChannelSink) Entries() <-chan LogEntry {
	return s.entries
}

// decodeEntry converts one JSON record written by zap into a LogEntry.
func decodeEntry(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, err
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Scope:     "app",
		Fields:    make(map[string]any),
	}

	if msg, ok := raw["msg"].(string); ok {
		entry.Message = msg
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = ParseLevel(level)
	}
	if name, ok := raw["logger"].(string); ok {
		entry.Scope = name
	}
	if ts, ok := raw["ts"].(float64); ok {
		sec := int64(ts)
		entry.Timestamp = time.Unix(sec, int64((ts-float64(sec))*1e9))
	}

	for k, v := range raw {
		switch k {
		case "msg", "level", "logger", "ts", "caller", "stacktrace":
		default:
			entry.Fields[k] = v
		}
	}

	return entry, nil
}
