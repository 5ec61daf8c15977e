// pattern: Functional Core

package logging

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// LogEntry is a parsed log record delivered to the TUI.
type LogEntry struct {
	Timestamp time.Time
	Level     string // DEBUG, INFO, WARN, ERROR
	Scope     string // logger name, e.g. "catalog" or "web"
	Message   string
	Fields    map[string]any
}

// String renders the entry on one line with fields in key order.
func (e LogEntry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Timestamp.Format("15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(e.Level)
	sb.WriteString(" [")
	sb.WriteString(e.Scope)
	sb.WriteString("] ")
	sb.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Fields[k])
	}

	return sb.String()
}

// Summary renders the message and an "error" field, if any, for a status line.
func (e LogEntry) Summary() string {
	if errVal, ok := e.Fields["error"]; ok {
		return fmt.Sprintf("%s: %v", e.Message, errVal)
	}
	return e.Message
}

// IsProblem reports whether the entry is a warning or an error.
func (e LogEntry) IsProblem() bool {
	return e.Level == "WARN" || e.Level == "ERROR"
}

// MatchesScope reports whether the entry's scope starts with prefix.
// An empty prefix matches everything.
func (e LogEntry) MatchesScope(prefix string) bool {
	return prefix == "" || strings.HasPrefix(e.Scope, prefix)
}

// ParseLevel normalizes a level name to upper case. Unknown levels are INFO.
func ParseLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return "DEBUG"
	case "warn", "warning":
		return "WARN"
	case "error", "dpanic", "panic", "fatal":
		return "ERROR"
	default:
		return "INFO"
	}
}
