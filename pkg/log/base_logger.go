package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Format selects how log lines are rendered.
type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

// BaseLogger is the default Logger implementation. It renders to a single
// writer; the write itself is serialized with a mutex shared between all
// loggers derived from the same root.
type BaseLogger struct {
	mu     *sync.Mutex
	out    io.Writer
	level  Level
	format Format
	fields Fields
}

// Option configures a BaseLogger.
type Option func(*BaseLogger)

// WithLevel sets the minimum emitted level.
func WithLevel(level Level) Option {
	return func(l *BaseLogger) { l.level = level }
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(l *BaseLogger) { l.format = format }
}

// WithOutput sets the destination writer.
func WithOutput(out io.Writer) Option {
	return func(l *BaseLogger) { l.out = out }
}

// NewLogger creates a BaseLogger writing text to stderr at info level.
func NewLogger(opts ...Option) *BaseLogger {
	l := &BaseLogger{
		mu:     &sync.Mutex{},
		out:    os.Stderr,
		level:  InfoLevel,
		format: TextFormat,
		fields: Fields{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Debug logs a message at the debug level with fields.
func (l *BaseLogger) Debug(msg string, fields ...Field) {
	l.emit(DebugLevel, msg, fields)
}

// Info logs a message at the info level with fields.
func (l *BaseLogger) Info(msg string, fields ...Field) {
	l.emit(InfoLevel, msg, fields)
}

// Warn logs a message at the warn level with fields.
func (l *BaseLogger) Warn(msg string, fields ...Field) {
	l.emit(WarnLevel, msg, fields)
}

// Error logs a message at the error level with fields.
func (l *BaseLogger) Error(msg string, fields ...Field) {
	l.emit(ErrorLevel, msg, fields)
}

// Debugf logs a formatted message at the debug level.
func (l *BaseLogger) Debugf(msg string, args ...interface{}) {
	l.emit(DebugLevel, fmt.Sprintf(msg, args...), nil)
}

// Infof logs a formatted message at the info level.
func (l *BaseLogger) Infof(msg string, args ...interface{}) {
	l.emit(InfoLevel, fmt.Sprintf(msg, args...), nil)
}

// Warnf logs a formatted message at the warn level.
func (l *BaseLogger) Warnf(msg string, args ...interface{}) {
	l.emit(WarnLevel, fmt.Sprintf(msg, args...), nil)
}

// Errorf logs a formatted message at the error level.
func (l *BaseLogger) Errorf(msg string, args ...interface{}) {
	l.emit(ErrorLevel, fmt.Sprintf(msg, args...), nil)
}

// With returns a new logger with the fields added to it.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	child := &BaseLogger{
		mu:     l.mu,
		out:    l.out,
		level:  l.level,
		format: l.format,
		fields: Fields{},
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for _, f := range fields {
		child.fields[f.Key] = f.Value
	}
	return child
}

// WithComponent tags logs with a component name.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel adjusts the minimum emitted level.
func (l *BaseLogger) SetLevel(level Level) {
	l.level = level
}

func (l *BaseLogger) emit(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	merged := Fields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}

	var line string
	switch l.format {
	case JSONFormat:
		line = l.formatJSON(level, msg, merged)
	default:
		line = l.formatText(level, msg, merged)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, line)
}

func (l *BaseLogger) formatText(level Level, msg string, fields Fields) string {
	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", k, fields[k]))
	}
	return b.String()
}

func (l *BaseLogger) formatJSON(level Level, msg string, fields Fields) string {
	entry := map[string]interface{}{
		"time":    time.Now().Format(time.RFC3339),
		"level":   level.String(),
		"message": msg,
	}
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return l.formatText(level, msg, fields)
	}
	return string(data)
}
