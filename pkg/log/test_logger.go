package log

import (
	"fmt"
	"sync"
)

// TestLogger captures log entries in memory for assertions in tests.
type TestLogger struct {
	mu      *sync.Mutex
	level   Level
	fields  Fields
	entries *[]TestEntry
}

func sprintf(msg string, args []interface{}) string {
	return fmt.Sprintf(msg, args...)
}

// TestEntry is one captured log call.
type TestEntry struct {
	Level   Level
	Message string
	Fields  Fields
}

// NewTestLogger creates a logger that records entries instead of writing.
func NewTestLogger() *TestLogger {
	entries := make([]TestEntry, 0)
	return &TestLogger{
		mu:      &sync.Mutex{},
		level:   DebugLevel,
		fields:  Fields{},
		entries: &entries,
	}
}

// Entries returns a copy of everything logged so far.
func (l *TestLogger) Entries() []TestEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]TestEntry, len(*l.entries))
	copy(out, *l.entries)
	return out
}

func (l *TestLogger) record(level Level, msg string, fields []Field) {
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
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, TestEntry{Level: level, Message: msg, Fields: merged})
}

func (l *TestLogger) Debug(msg string, fields ...Field) { l.record(DebugLevel, msg, fields) }
func (l *TestLogger) Info(msg string, fields ...Field)  { l.record(InfoLevel, msg, fields) }
func (l *TestLogger) Warn(msg string, fields ...Field)  { l.record(WarnLevel, msg, fields) }
func (l *TestLogger) Error(msg string, fields ...Field) { l.record(ErrorLevel, msg, fields) }

func (l *TestLogger) Debugf(msg string, args ...interface{}) { l.record(DebugLevel, sprintf(msg, args), nil) }
func (l *TestLogger) Infof(msg string, args ...interface{})  { l.record(InfoLevel, sprintf(msg, args), nil) }
func (l *TestLogger) Warnf(msg string, args ...interface{})  { l.record(WarnLevel, sprintf(msg, args), nil) }
func (l *TestLogger) Errorf(msg string, args ...interface{}) { l.record(ErrorLevel, sprintf(msg, args), nil) }

// With returns a logger sharing the same entry sink with extra fields.
func (l *TestLogger) With(fields ...Field) Logger {
	child := &TestLogger{
		mu:      l.mu,
		level:   l.level,
		fields:  Fields{},
		entries: l.entries,
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for _, f := range fields {
		child.fields[f.Key] = f.Value
	}
	return child
}

// WithComponent tags entries with a component name.
func (l *TestLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel adjusts the minimum recorded level.
func (l *TestLogger) SetLevel(level Level) {
	l.level = level
}
